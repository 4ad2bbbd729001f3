package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stay-reservation/internal/config"
    "github.com/iliyamo/stay-reservation/internal/model"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
    t.Helper()
    s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
    if err != nil {
        t.Fatal(err)
    }
    return s
}

func serve(t *testing.T, mw []echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, model.Actor) {
    t.Helper()
    e := echo.New()
    var seen model.Actor
    e.GET("/x", func(c echo.Context) error {
        seen, _ = ActorFrom(c)
        return c.NoContent(http.StatusNoContent)
    }, mw...)
    req := httptest.NewRequest(http.MethodGet, "/x", nil)
    if header != "" {
        req.Header.Set("Authorization", header)
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec, seen
}

func TestJWTAuth(t *testing.T) {
    exp := time.Now().Add(time.Hour).Unix()
    cases := []struct {
        name   string
        header string
        status int
        actor  model.Actor
    }{
        {"missing", "", http.StatusUnauthorized, model.Actor{}},
        {"garbage", "Bearer nope", http.StatusUnauthorized, model.Actor{}},
        {"numeric sub", "Bearer " + sign(t, jwt.MapClaims{"sub": 42, "role": "GUEST", "exp": exp}), http.StatusNoContent, model.Actor{ID: 42, Role: model.RoleGuest}},
        {"string sub", "Bearer " + sign(t, jwt.MapClaims{"sub": "7", "role": "owner", "exp": exp}), http.StatusNoContent, model.Actor{ID: 7, Role: model.RoleOwner}},
        {"unknown role", "Bearer " + sign(t, jwt.MapClaims{"sub": 1, "role": "ROOT", "exp": exp}), http.StatusUnauthorized, model.Actor{}},
        {"expired", "Bearer " + sign(t, jwt.MapClaims{"sub": 1, "role": "ADMIN", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized, model.Actor{}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec, actor := serve(t, []echo.MiddlewareFunc{JWTAuth(testSecret)}, tc.header)
            if rec.Code != tc.status {
                t.Fatalf("status = %d, want %d", rec.Code, tc.status)
            }
            if actor != tc.actor {
                t.Fatalf("actor = %+v, want %+v", actor, tc.actor)
            }
        })
    }
}

func TestRequireRole(t *testing.T) {
    guestTok := "Bearer " + sign(t, jwt.MapClaims{"sub": 5, "role": "GUEST", "exp": time.Now().Add(time.Hour).Unix()})
    rec, _ := serve(t, []echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole(model.RoleOwner, model.RoleAdmin)}, guestTok)
    if rec.Code != http.StatusForbidden {
        t.Fatalf("status = %d", rec.Code)
    }
    rec, _ = serve(t, []echo.MiddlewareFunc{JWTAuth(testSecret), RequireRole(model.RoleGuest)}, guestTok)
    if rec.Code != http.StatusNoContent {
        t.Fatalf("status = %d", rec.Code)
    }
}

func TestCacheKeyUsesConcretePathAndSortedQuery(t *testing.T) {
    e := echo.New()
    cfg := config.CacheConfig{Prefix: "p", KeyStrategy: "route_query"}
    key := func(target string) string {
        c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
        c.SetPath("/v1/properties/:id/occupied-dates")
        return cacheKeyFrom(cfg, c)
    }
    a := key("/v1/properties/1/occupied-dates?from=2025-03-01&to=2025-03-31")
    b := key("/v1/properties/1/occupied-dates?to=2025-03-31&from=2025-03-01")
    other := key("/v1/properties/2/occupied-dates?from=2025-03-01&to=2025-03-31")
    if a != b {
        t.Fatal("query order changed the key")
    }
    if a == other {
        t.Fatal("different properties share a key")
    }
}

func TestPayloadRoundTrip(t *testing.T) {
    h := http.Header{"Content-Type": {"application/json"}}
    bs, err := encodePayload(http.StatusOK, h, []byte(`{"ok":true}`))
    if err != nil {
        t.Fatal(err)
    }
    status, hdr, body, ok := decodePayload(bs)
    if !ok || status != http.StatusOK || hdr.Get("Content-Type") != "application/json" || string(body) != `{"ok":true}` {
        t.Fatalf("decoded %d %v %q %v", status, hdr, body, ok)
    }
    if _, _, _, ok := decodePayload([]byte{1, 2}); ok {
        t.Fatal("short payload decoded")
    }
}
