package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uscann/chemtrack/internal/config"
	"github.com/uscann/chemtrack/internal/middleware"
	"github.com/uscann/chemtrack/internal/services"
	"github.com/uscann/chemtrack/internal/testutil"
	"github.com/uscann/chemtrack/internal/types"
	"github.com/uscann/chemtrack/internal/utils"
)

type stubCompounds struct{}

func (stubCompounds) LookupCAS(_ context.Context, cas string) (*services.Compound, error) {
	if cas == "67-64-1" {
		return &services.Compound{CASNumber: cas, Name: "Acetone", MolecularFormula: "C3H6O", IUPACName: "propan-2-one"}, nil
	}
	return nil, types.NotFound("no compound found for CAS %s", cas)
}

type testEnv struct {
	app     *fiber.App
	deps    Dependencies
	fixture *testutil.Fixture
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	f := testutil.Seed(t, db)
	log := zap.NewNop()

	deps := Dependencies{
		DB:        db,
		Config:    &config.Config{DBType: "sqlite-pure", DBDatabase: ":memory:", PubChemURL: "http://127.0.0.1:1"},
		Log:       log,
		Tokens:    services.NewTokenIssuer("0123456789abcdef0123456789abcdef", time.Hour),
		Compounds: stubCompounds{},
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	app.Use(middleware.RequestLogger(log))
	RegisterRoutes(app, deps)
	app.Use(NotFound)

	return &testEnv{app: app, deps: deps, fixture: f}
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}) *http.Response {
	t.Helper()
	return testutil.Do(t, e.app, testutil.JSONRequest(t, method, target, body))
}

func (e *testEnv) token(t *testing.T, id uint, role string) string {
	t.Helper()
	token, err := e.deps.Tokens.Issue(services.Identity{ID: id, Role: role})
	require.NoError(t, err)
	return token
}

func errorBody(t *testing.T, resp *http.Response) utils.ErrorResponseStruct {
	t.Helper()
	var body utils.ErrorResponseStruct
	testutil.ParseJSON(t, resp, &body)
	return body
}
