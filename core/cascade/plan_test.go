package cascade

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_Run(t *testing.T) {
	errBoom := errors.New("boom")

	var calls []string
	step := func(name string, n int, err error) Step {
		return Step{Name: name, Apply: func(ctx context.Context) (int, error) {
			calls = append(calls, name)
			return n, err
		}}
	}

	tests := []struct {
		name         string
		steps        []Step
		wantCalls    []string
		wantAffected int
		wantFailed   string
	}{
		{name: "no steps"},
		{
			name:         "all steps",
			steps:        []Step{step("a", 1, nil), step("b", 2, nil), step("c", 0, nil)},
			wantCalls:    []string{"a", "b", "c"},
			wantAffected: 3,
		},
		{
			name:         "stops at first failure",
			steps:        []Step{step("a", 1, nil), step("b", 0, errBoom), step("c", 5, nil)},
			wantCalls:    []string{"a", "b"},
			wantAffected: 1,
			wantFailed:   "b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = nil
			report, err := Plan{Name: "test", Steps: tt.steps}.Run(context.Background())

			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, "test", report.Plan)
			assert.Equal(t, tt.wantAffected, report.Affected())
			assert.Equal(t, tt.wantFailed, report.Failed)
			assert.Equal(t, tt.wantFailed == "", report.Completed())

			if tt.wantFailed == "" {
				assert.NoError(t, err)
				assert.Len(t, report.Results, len(tt.steps))
				return
			}
			var stepErr *StepError
			require.True(t, errors.As(err, &stepErr))
			assert.Equal(t, "test", stepErr.Plan)
			assert.Equal(t, tt.wantFailed, stepErr.Step)
			assert.True(t, errors.Is(err, errBoom))
			assert.Equal(t, "b: boom", err.Error())
		})
	}
}

func TestPlan_Run_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ran []string
	plan := Plan{Name: "test", Steps: []Step{
		{Name: "a", Apply: func(ctx context.Context) (int, error) {
			ran = append(ran, "a")
			cancel()
			return 1, nil
		}},
		{Name: "b", Apply: func(ctx context.Context) (int, error) {
			ran = append(ran, "b")
			return 1, nil
		}},
	}}

	report, err := plan.Run(ctx)
	assert.Equal(t, []string{"a"}, ran)
	assert.Equal(t, "b", report.Failed)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCount(t *testing.T) {
	tests := []struct {
		name  string
		ok    bool
		err   error
		wantN int
	}{
		{name: "changed", ok: true, wantN: 1},
		{name: "unchanged", ok: false, wantN: 0},
		{name: "error", ok: false, err: errors.New("lol"), wantN: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Count(func(context.Context) (bool, error) { return tt.ok, tt.err })(context.Background())
			assert.Equal(t, tt.wantN, n)
			assert.Equal(t, tt.err, err)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "", want: Retain},
		{in: "retain", want: Retain},
		{in: " SetNull ", want: SetNull},
		{in: "restrict", want: RestrictIfReferenced},
		{in: "cascade", want: CascadeDelete},
		{in: "lol", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePolicy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePolicy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithCategoryPolicy(t *testing.T) {
	edges := WithCategoryPolicy(Edges, SetNull)

	assert.Equal(t, SetNull, PolicyOf(edges, "courses.category"))
	assert.Equal(t, Retain, PolicyOf(Edges, "courses.category"), "Edges must not be modified")
	assert.Equal(t, Retain, PolicyOf(edges, "courses.instructor"))
	assert.Equal(t, CascadeDelete, PolicyOf(edges, "ratingandreviews.user"))
	assert.Len(t, EdgesTo(edges, "users"), 3)
}
