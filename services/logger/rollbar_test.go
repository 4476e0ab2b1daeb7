package logsvc

import (
	"bytes"
	"fmt"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/cascade"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

func newLogger(t *testing.T) (*RollbarLogger, *bytes.Buffer) {
	var out bytes.Buffer
	l := NewRollbarLogger(log.New(&out, "", 0), &core.Config{Env: "TEST", Build: "test"})
	l.Enable(false)
	return l, &out
}

func TestRollbarLogger_prepare(t *testing.T) {
	l, _ := newLogger(t)
	admin := user.User{ID: primitive.NewObjectID(), FirstName: "Root", Email: "root@test.cd"}
	stepErr := errors.Wrap(&cascade.StepError{Plan: "delete-user", Step: "delete-user-reviews", Err: errors.New("connection reset")}, "deleting user")

	tests := []struct {
		name string
		args []interface{}
		want []interface{}
	}{
		{name: "message only", want: []interface{}{"boom"}},
		{name: "user dropped", args: []interface{}{admin}, want: []interface{}{"boom"}},
		{
			name: "plain error",
			args: []interface{}{errors.New("lol")},
			want: []interface{}{"boom", errors.New("lol")},
		},
		{
			name: "step error adds extras",
			args: []interface{}{stepErr, admin},
			want: []interface{}{"boom", stepErr, map[string]interface{}{"plan": "delete-user", "step": "delete-user-reviews"}},
		},
		{
			name: "extras merged",
			args: []interface{}{map[string]interface{}{"id": "1"}, map[string]interface{}{"path": "/"}},
			want: []interface{}{"boom", map[string]interface{}{"id": "1", "path": "/"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.prepare("boom", tt.args)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				if err, ok := tt.want[i].(error); ok {
					assert.EqualError(t, got[i].(error), err.Error())
					continue
				}
				assert.Equal(t, tt.want[i], got[i])
			}
		})
	}
}

func TestRollbarLogger_print(t *testing.T) {
	l, out := newLogger(t)
	l.Warn("course notice failed", fmt.Errorf("no route"), user.User{Email: "root@test.cd"})

	assert.Equal(t, "WARN: course notice failed\nno route\n", out.String())
}
