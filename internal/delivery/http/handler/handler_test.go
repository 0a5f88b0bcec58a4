package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"career-crafter/internal/delivery/http/middleware"
	domain "career-crafter/internal/domain/insight"
	"career-crafter/internal/domain/user"
	"career-crafter/internal/pkg/jwt"
	"career-crafter/internal/pkg/llm"
	"career-crafter/internal/usecase/insight"
	useruc "career-crafter/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type stubEnsurer struct{ calls int }

func (s *stubEnsurer) EnsureUser(ctx context.Context, id user.Identity) (user.User, error) {
	s.calls++
	return user.User{ID: uuid.New(), ExternalUserID: id.ExternalUserID, Email: id.Email}, nil
}

type stubUserUC struct {
	usr         user.User
	dashboard   insight.Result
	dashErr     error
	updateErr   error
	lastUpdate  useruc.UpdateProfileInput
	lastSubject string
}

func (s *stubUserUC) GetMe(ctx context.Context, externalID string) (user.User, error) {
	s.lastSubject = externalID
	return s.usr, nil
}

func (s *stubUserUC) OnboardingStatus(ctx context.Context, externalID string) (useruc.OnboardingStatus, error) {
	return useruc.OnboardingStatus{IsOnboarded: s.usr.IsOnboarded()}, nil
}

func (s *stubUserUC) UpdateProfile(ctx context.Context, externalID string, in useruc.UpdateProfileInput) (user.User, error) {
	s.lastUpdate = in
	if s.updateErr != nil {
		return user.User{}, s.updateErr
	}
	return s.usr, nil
}

func (s *stubUserUC) Dashboard(ctx context.Context, externalID string) (insight.Result, error) {
	return s.dashboard, s.dashErr
}

const secret = "test-secret"

func newApp(t *testing.T, register func(r fiber.Router)) (*fiber.App, string) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	jwtSvc := jwt.NewHMACService(secret, "", time.Hour)
	token, err := jwtSvc.GenerateToken("user_123", "ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	app := fiber.New(fiber.Config{})
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	api := app.Group("/api/v1", middleware.NewAuthMiddleware(jwtSvc, &stubEnsurer{}, logger).Middleware())
	register(api)
	return app, token
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func TestAuth_MissingOrBadToken(t *testing.T) {
	uc := &stubUserUC{}
	app, _ := newApp(t, NewUserHandler(uc).RegisterRoutes)

	for _, tok := range []string{"", "not-a-jwt"} {
		status, env := do(t, app, http.MethodGet, "/api/v1/users/me", tok, nil)
		if status != fiber.StatusUnauthorized || env.Message != "Unauthorized" {
			t.Fatalf("token %q: status=%d message=%q", tok, status, env.Message)
		}
	}
}

func TestGetMe_UsesTokenSubject(t *testing.T) {
	uc := &stubUserUC{usr: user.User{ID: uuid.New(), ExternalUserID: "user_123"}}
	app, token := newApp(t, NewUserHandler(uc).RegisterRoutes)

	status, env := do(t, app, http.MethodGet, "/api/v1/users/me", token, nil)
	if status != fiber.StatusOK || env.Message != "ok" {
		t.Fatalf("status=%d env=%+v", status, env)
	}
	if uc.lastSubject != "user_123" {
		t.Fatalf("subject = %q", uc.lastSubject)
	}
	var body map[string]any
	_ = json.Unmarshal(env.Data, &body)
	if body["isOnboarded"] != false {
		t.Fatalf("data = %s", env.Data)
	}
}

func TestInsights_ProfileIncomplete(t *testing.T) {
	uc := &stubUserUC{dashErr: user.ErrProfileIncomplete}
	app, token := newApp(t, NewUserHandler(uc).RegisterRoutes)

	status, env := do(t, app, http.MethodGet, "/api/v1/insights", token, nil)
	if status != fiber.StatusConflict || env.Message != msgProfileIncomplete {
		t.Fatalf("status=%d message=%q", status, env.Message)
	}
	var data ProfileIncompleteData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Redirect != "/onboarding" || data.Code != "profile_incomplete" {
		t.Fatalf("data = %s (%v)", env.Data, err)
	}
}

func TestInsights_GenerationUnavailable(t *testing.T) {
	uc := &stubUserUC{dashErr: errors.Join(insight.ErrGenerationUnavailable, errors.New("429"))}
	app, token := newApp(t, NewUserHandler(uc).RegisterRoutes)

	status, env := do(t, app, http.MethodGet, "/api/v1/insights", token, nil)
	if status != fiber.StatusServiceUnavailable || env.Message != msgInsightsUnavailable {
		t.Fatalf("status=%d message=%q", status, env.Message)
	}
}

func TestInsights_StaleFlag(t *testing.T) {
	rec := domain.Record{IndustryKey: "tech-software", GrowthRatePercent: 12, DemandLevel: domain.DemandHigh}
	uc := &stubUserUC{dashboard: insight.Result{Record: rec, Source: insight.SourceExpiredCache}}
	app, token := newApp(t, NewUserHandler(uc).RegisterRoutes)

	status, env := do(t, app, http.MethodGet, "/api/v1/insights", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("status=%d", status)
	}
	var body struct {
		IndustryKey string  `json:"industryKey"`
		GrowthRate  float64 `json:"growthRate"`
		Source      string  `json:"source"`
		Stale       bool    `json:"stale"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Source != "expired_cache" || !body.Stale || body.IndustryKey != "tech-software" || body.GrowthRate != 12 {
		t.Fatalf("body = %+v", body)
	}
}

func TestUpdateMe_SkillsAsString(t *testing.T) {
	uc := &stubUserUC{}
	app, token := newApp(t, NewUserHandler(uc).RegisterRoutes)

	status, _ := do(t, app, http.MethodPut, "/api/v1/users/me", token, map[string]any{
		"industry":    "tech",
		"subIndustry": "Software Development",
		"experience":  3,
		"skills":      "Go, SQL, go",
	})
	if status != fiber.StatusOK {
		t.Fatalf("status=%d", status)
	}
	if len(uc.lastUpdate.Skills) != 2 || uc.lastUpdate.Skills[0] != "Go" {
		t.Fatalf("skills = %v", uc.lastUpdate.Skills)
	}
}

func TestUpdateMe_InvalidInput(t *testing.T) {
	uc := &stubUserUC{updateErr: useruc.ErrInvalidInput}
	app, token := newApp(t, NewUserHandler(uc).RegisterRoutes)

	status, env := do(t, app, http.MethodPut, "/api/v1/users/me", token, map[string]any{"industry": ""})
	if status != fiber.StatusBadRequest || env.Message != msgInvalidPayload {
		t.Fatalf("status=%d message=%q", status, env.Message)
	}
}

func TestMapError_AIErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{llm.Surface(llm.ErrNotConfigured), fiber.StatusBadGateway, msgAIMisconfigured},
		{llm.Surface(errors.New("quota exceeded")), fiber.StatusServiceUnavailable, msgAIUnavailable},
		{errors.New("db down"), fiber.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		var appErr *middleware.AppError
		if !errors.As(mapError(tc.err), &appErr) || appErr.StatusCode != tc.status || appErr.Message != tc.msg {
			t.Fatalf("mapError(%v) = %+v", tc.err, appErr)
		}
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReady_OptionalCheckDoesNotFail(t *testing.T) {
	down := pingFunc(func(ctx context.Context) error { return errors.New("connection refused") })
	up := pingFunc(func(ctx context.Context) error { return nil })

	app := fiber.New(fiber.Config{})
	NewHealthHandler(map[string]Pinger{"postgres": up, "redis": down}, "redis").RegisterRoutes(app)
	status, env := do(t, app, http.MethodGet, "/readyz", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("status=%d data=%s", status, env.Data)
	}

	app = fiber.New(fiber.Config{})
	NewHealthHandler(map[string]Pinger{"postgres": down}).RegisterRoutes(app)
	status, _ = do(t, app, http.MethodGet, "/readyz", "", nil)
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", status)
	}
}
