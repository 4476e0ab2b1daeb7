package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/princebhanderi/ed-tech-platform/assets"
	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/admin"
	"github.com/princebhanderi/ed-tech-platform/core/cascade"
	"github.com/princebhanderi/ed-tech-platform/core/catalog"
	"github.com/princebhanderi/ed-tech-platform/core/user"
	emailsvc "github.com/princebhanderi/ed-tech-platform/services/email"
	inmemdb "github.com/princebhanderi/ed-tech-platform/storage/database/inmem"
	"github.com/princebhanderi/ed-tech-platform/tests"
)

var errMissingToken = errorResponse{Message: "missing or malformed jwt"}

type testApp struct {
	Server
	conf  *core.Config
	repos inmemdb.Repositories
	mail  *emailsvc.ConsoleServiceMock
}

// newTestApp serves a fresh in-memory store. wrap may swap repositories before the services are built.
func newTestApp(t *testing.T, wrap ...func(*admin.Deps)) *testApp {
	conf := testutil.Config()
	logger := testutil.Logger(conf)
	if err := core.ParseEmailTemplates(assets.FS, conf); err != nil {
		t.Fatalf("ParseEmailTemplates() failed: %v", err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	app := &testApp{
		conf:  conf,
		repos: inmemdb.Open().Repositories(),
		mail:  emailsvc.NewConsoleServiceMock(conf, logger),
	}
	deps := admin.Deps{
		Users:          app.repos.Users,
		Profiles:       app.repos.Profiles,
		Courses:        app.repos.Courses,
		Categories:     app.repos.Categories,
		Reviews:        app.repos.Reviews,
		Mail:           app.mail,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		CategoryPolicy: cascade.Retain,
	}
	for _, w := range wrap {
		w(&deps)
	}

	app.Server = NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		AdminSvc:   admin.NewService(deps),
		Catalog:    catalog.NewReader(deps.Categories, deps.Courses, deps.Users, deps.Reviews),
		Validate:   validate,
		Translator: translator,
	})
	return app
}

func (app *testApp) createAdmin(t *testing.T) (user.User, string) {
	usr := testutil.CreateUser(t, app.repos.Users, user.User{FirstName: "Root", Email: "root@test.cd", AccountType: user.RoleAdmin})
	return usr, getToken(t, usr, app.conf)
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func getToken(t *testing.T, usr user.User, conf *core.Config) string {
	token, err := GenerateToken(GetUserClaims(usr, conf), conf.SecretKey)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
