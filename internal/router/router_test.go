package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/planner/api/handler"
	"github.com/fastygo/planner/domain"
	boltInfra "github.com/fastygo/planner/internal/infrastructure/boltdb"
	"github.com/fastygo/planner/internal/middleware"
	"github.com/fastygo/planner/pkg/httpcontext"
	"github.com/fastygo/planner/repository/boltdb"
	authUC "github.com/fastygo/planner/usecase/auth"
	taskUC "github.com/fastygo/planner/usecase/task"
)

type authBody struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func newTestHandler(t *testing.T) fasthttp.RequestHandler {
	t.Helper()
	db, err := boltInfra.Open(filepath.Join(t.TempDir(), "planner.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	sessions := authUC.NewSessionStore(boltdb.NewSessionRepository(db), nil)
	authUseCase := authUC.New(boltdb.NewUserRepository(db), sessions, authUC.NewSaltedSHA256("salt"), nil)
	taskUseCase := taskUC.New(boltdb.NewTaskRepository(db), nil)
	adapter := httpcontext.NewAdapter(0)

	r := New(Handlers{
		Auth: apiHandler.NewAuthHandler(authUseCase, adapter, nil),
		Task: apiHandler.NewTaskHandler(taskUseCase, adapter, nil),
	}, middleware.BearerAuth(authUC.NewGate(sessions), adapter, nil))
	return r.Handler
}

func do(t *testing.T, h fasthttp.RequestHandler, method, path, token, body string) *fasthttp.RequestCtx {
	t.Helper()
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if token != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBodyString(body)
	}
	h(ctx)
	return ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(ctx.Response.Body(), out); err != nil {
		t.Fatalf("decode %q: %v", ctx.Response.Body(), err)
	}
}

func expectStatus(t *testing.T, ctx *fasthttp.RequestCtx, status int) {
	t.Helper()
	if got := ctx.Response.StatusCode(); got != status {
		t.Fatalf("%s %s: expected %d, got %d (%s)", ctx.Method(), ctx.Path(), status, got, ctx.Response.Body())
	}
}

func TestRegisterCreateLogoutLoginList(t *testing.T) {
	h := newTestHandler(t)

	res := do(t, h, http.MethodPost, "/auth/register", "", `{"email":"a@x.com","name":"A","password":"pw1"}`)
	expectStatus(t, res, http.StatusOK)
	var registered authBody
	decode(t, res, &registered)
	if registered.Token == "" || registered.User.Email != "a@x.com" {
		t.Fatalf("unexpected register response %+v", registered)
	}

	res = do(t, h, http.MethodPost, "/tasks", registered.Token, `{"text":"Ship the release notes","category":"work"}`)
	expectStatus(t, res, http.StatusCreated)
	var created domain.Task
	decode(t, res, &created)
	if created.Title != "Ship the release notes" || created.Done || created.Project != "" {
		t.Fatalf("unexpected task %+v", created)
	}

	res = do(t, h, http.MethodPost, "/auth/logout", registered.Token, "")
	expectStatus(t, res, http.StatusNoContent)

	res = do(t, h, http.MethodGet, "/tasks", registered.Token, "")
	expectStatus(t, res, http.StatusUnauthorized)

	res = do(t, h, http.MethodPost, "/auth/login", "", `{"email":"A@X.com","password":"pw1"}`)
	expectStatus(t, res, http.StatusOK)
	var loggedIn authBody
	decode(t, res, &loggedIn)
	if loggedIn.Token == registered.Token || loggedIn.User.ID != registered.User.ID {
		t.Fatalf("unexpected login response %+v", loggedIn)
	}

	res = do(t, h, http.MethodGet, "/tasks", loggedIn.Token, "")
	expectStatus(t, res, http.StatusOK)
	var tasks []domain.Task
	decode(t, res, &tasks)
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	h := newTestHandler(t)

	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer unknown"} {
		ctx := &fasthttp.RequestCtx{}
		ctx.Request.Header.SetMethod(http.MethodGet)
		ctx.Request.SetRequestURI("/tasks")
		if header != "" {
			ctx.Request.Header.Set("Authorization", header)
		}
		h(ctx)
		expectStatus(t, ctx, http.StatusUnauthorized)
	}
}

func TestErrorStatuses(t *testing.T) {
	h := newTestHandler(t)

	res := do(t, h, http.MethodPost, "/auth/register", "", `{"email":"a@x.com","name":"A","password":"pw1"}`)
	var owner authBody
	decode(t, res, &owner)

	res = do(t, h, http.MethodPost, "/auth/register", "", `{"email":"a@x.com","name":"B","password":"pw2"}`)
	expectStatus(t, res, http.StatusBadRequest)

	res = do(t, h, http.MethodPost, "/auth/register", "", `not json`)
	expectStatus(t, res, http.StatusBadRequest)

	wrongPassword := do(t, h, http.MethodPost, "/auth/login", "", `{"email":"a@x.com","password":"nope"}`)
	unknownEmail := do(t, h, http.MethodPost, "/auth/login", "", `{"email":"b@x.com","password":"pw1"}`)
	expectStatus(t, wrongPassword, http.StatusBadRequest)
	expectStatus(t, unknownEmail, http.StatusBadRequest)
	if string(wrongPassword.Response.Body()) != string(unknownEmail.Response.Body()) {
		t.Fatalf("login failures differ: %s vs %s", wrongPassword.Response.Body(), unknownEmail.Response.Body())
	}

	res = do(t, h, http.MethodPost, "/tasks", owner.Token, `{"text":"   ","category":"work"}`)
	expectStatus(t, res, http.StatusBadRequest)

	res = do(t, h, http.MethodPatch, "/tasks/missing", owner.Token, `{"done":true}`)
	expectStatus(t, res, http.StatusNotFound)

	res = do(t, h, http.MethodDelete, "/tasks/missing", owner.Token, "")
	expectStatus(t, res, http.StatusNotFound)

	res = do(t, h, http.MethodPost, "/auth/logout", "", "")
	expectStatus(t, res, http.StatusNoContent)
}

func TestTasksAreIsolatedPerOwner(t *testing.T) {
	h := newTestHandler(t)

	var alice, bob authBody
	decode(t, do(t, h, http.MethodPost, "/auth/register", "", `{"email":"alice@x.com","name":"Alice","password":"pw"}`), &alice)
	decode(t, do(t, h, http.MethodPost, "/auth/register", "", `{"email":"bob@x.com","name":"Bob","password":"pw"}`), &bob)

	var task domain.Task
	decode(t, do(t, h, http.MethodPost, "/tasks", alice.Token, `{"text":"Alice only","category":"personal","date":"2025-05-01"}`), &task)

	expectStatus(t, do(t, h, http.MethodGet, "/tasks/"+task.ID, bob.Token, ""), http.StatusNotFound)
	expectStatus(t, do(t, h, http.MethodPatch, "/tasks/"+task.ID, bob.Token, `{"done":true}`), http.StatusNotFound)
	expectStatus(t, do(t, h, http.MethodDelete, "/tasks/"+task.ID, bob.Token, ""), http.StatusNotFound)

	var bobTasks []domain.Task
	decode(t, do(t, h, http.MethodGet, "/tasks", bob.Token, ""), &bobTasks)
	if len(bobTasks) != 0 {
		t.Fatalf("bob sees %d tasks", len(bobTasks))
	}

	res := do(t, h, http.MethodPatch, "/tasks/"+task.ID, alice.Token, `{"done":true,"text":"Alice only, updated"}`)
	expectStatus(t, res, http.StatusOK)
	var patched domain.Task
	decode(t, res, &patched)
	if !patched.Done || patched.Title != "Alice only, updated" || patched.Category != domain.CategoryPersonal {
		t.Fatalf("unexpected patched task %+v", patched)
	}

	res = do(t, h, http.MethodGet, "/tasks/"+task.ID, alice.Token, "")
	expectStatus(t, res, http.StatusOK)
	var fetched domain.Task
	decode(t, res, &fetched)
	if fetched.ID != task.ID || !fetched.Done || fetched.Date == nil || *fetched.Date != "2025-05-01" {
		t.Fatalf("unexpected fetched task %+v", fetched)
	}

	expectStatus(t, do(t, h, http.MethodDelete, "/tasks/"+task.ID, alice.Token, ""), http.StatusNoContent)
	expectStatus(t, do(t, h, http.MethodGet, "/tasks/"+task.ID, alice.Token, ""), http.StatusNotFound)
	expectStatus(t, do(t, h, http.MethodDelete, "/tasks/"+task.ID, alice.Token, ""), http.StatusNotFound)
}

func TestMeReturnsCaller(t *testing.T) {
	h := newTestHandler(t)

	var registered authBody
	decode(t, do(t, h, http.MethodPost, "/auth/register", "", `{"email":"me@x.com","name":"Me","password":"pw"}`), &registered)

	res := do(t, h, http.MethodGet, "/auth/me", registered.Token, "")
	expectStatus(t, res, http.StatusOK)
	var me domain.User
	decode(t, res, &me)
	if me.ID != registered.User.ID || me.Name != "Me" {
		t.Fatalf("unexpected user %+v", me)
	}
	if bytes.Contains(res.Response.Body(), []byte("password")) {
		t.Fatalf("password digest leaked: %s", res.Response.Body())
	}
}
