package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"fleura_storefront/internal/auth"
	"fleura_storefront/internal/cache"
	"fleura_storefront/internal/cartapi"
	"fleura_storefront/internal/localstore"
	"fleura_storefront/internal/middleware"
)

const testJWTSecret = "secret_api_test"

func init() {
	gin.SetMode(gin.TestMode)
	auth.InitSessionStore("secret_session_test")
}

func newCartRouter(deps CartDeps) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.ResolveSession(testJWTSecret))
	api.GET("/cart", GetCart(deps))
	api.POST("/cart", AddToCart(deps))
	api.PUT("/cart/:itemId", UpdateCartItem(deps))
	api.DELETE("/cart/:itemId", RemoveCartItem(deps))
	api.DELETE("/cart", ClearCart(deps))
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func signTestToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("signature du token: %v", err)
	}
	return signed
}

type cartBody struct {
	Items     []map[string]interface{} `json:"items"`
	ItemCount int                      `json:"itemCount"`
	Subtotal  float64                  `json:"subtotal"`
}

func TestGuestCartFlowKeepsIdentityAcrossRequests(t *testing.T) {
	kv := cache.NewMemory()
	deps := CartDeps{Local: localstore.New(kv), Remote: cartapi.New("http://invalide.test")}
	r := newCartRouter(deps)

	item := map[string]interface{}{
		"productId": "p1",
		"title":     "Roses rouges",
		"price":     100,
		"quantity":  1,
	}

	first := doJSON(r, http.MethodPost, "/api/cart", item, nil, "")
	if first.Code != http.StatusOK {
		t.Fatalf("premier ajout: HTTP %d — %s", first.Code, first.Body.String())
	}
	cookies := first.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("un cookie de session invité doit être posé")
	}

	second := doJSON(r, http.MethodPost, "/api/cart", item, cookies, "")
	if second.Code != http.StatusOK {
		t.Fatalf("second ajout: HTTP %d — %s", second.Code, second.Body.String())
	}

	get := doJSON(r, http.MethodGet, "/api/cart", nil, cookies, "")
	if get.Code != http.StatusOK {
		t.Fatalf("lecture: HTTP %d", get.Code)
	}

	var body cartBody
	if err := json.Unmarshal(get.Body.Bytes(), &body); err != nil {
		t.Fatalf("décodage réponse: %v", err)
	}
	if len(body.Items) != 1 || body.ItemCount != 2 || body.Subtotal != 200 {
		t.Fatalf("fusion invité attendue (1 ligne, quantité 2): %+v", body)
	}
}

func TestGuestRemovalRequiresLogin(t *testing.T) {
	deps := CartDeps{Local: localstore.New(cache.NewMemory()), Remote: cartapi.New("http://invalide.test")}
	r := newCartRouter(deps)

	if rec := doJSON(r, http.MethodDelete, "/api/cart/x1", nil, nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("suppression invité: attendu 401, obtenu %d", rec.Code)
	}
	if rec := doJSON(r, http.MethodDelete, "/api/cart", nil, nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("vidage invité: attendu 401, obtenu %d", rec.Code)
	}
}

func TestAddInvalidPayloadRejected(t *testing.T) {
	deps := CartDeps{Local: localstore.New(cache.NewMemory()), Remote: cartapi.New("http://invalide.test")}
	r := newCartRouter(deps)

	rec := doJSON(r, http.MethodPost, "/api/cart", map[string]interface{}{
		"title": "Sans produit", "price": 10, "quantity": 1,
	}, nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("attendu 400, obtenu %d — %s", rec.Code, rec.Body.String())
	}
}

func TestAuthenticatedCartProxiesUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"cart": [{"_id":"x1","productId":"p2","title":"Orchidée","price":250,"images":["a.jpg"],"quantity":1}],
			"itemCount": 1
		}`))
	}))
	defer upstream.Close()

	kv := cache.NewMemory()
	local := localstore.New(kv)
	deps := CartDeps{Local: local, Remote: cartapi.New(upstream.URL)}
	r := newCartRouter(deps)

	token := signTestToken(t, "u1")
	rec := doJSON(r, http.MethodPost, "/api/cart", map[string]interface{}{
		"productId": "p2", "title": "Orchidée", "price": 250, "quantity": 1,
	}, nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("ajout authentifié: HTTP %d — %s", rec.Code, rec.Body.String())
	}

	var body cartBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("décodage réponse: %v", err)
	}
	if body.ItemCount != 1 || len(body.Items) != 1 {
		t.Fatalf("panier serveur attendu: %+v", body)
	}
	if body.Items[0]["id"] != "x1" {
		t.Fatalf("la ligne doit porter l'id serveur: %+v", body.Items[0])
	}

	// Backup local sous la clé de l'utilisateur
	backup := local.Load(context.Background(), "u1")
	if len(backup) != 1 || backup[0].ID != "x1" {
		t.Fatalf("backup local attendu sous cart_u1: %+v", backup)
	}
}

func TestAuthenticatedUpdateZeroRemovesLine(t *testing.T) {
	var sawDelete bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete && r.URL.Path == "/cart/x1" {
			sawDelete = true
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cart":[],"itemCount":0}`))
	}))
	defer upstream.Close()

	deps := CartDeps{Local: localstore.New(cache.NewMemory()), Remote: cartapi.New(upstream.URL)}
	r := newCartRouter(deps)

	token := signTestToken(t, "u1")
	rec := doJSON(r, http.MethodPut, "/api/cart/x1", map[string]interface{}{"quantity": 0}, nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("mise à jour à zéro: HTTP %d — %s", rec.Code, rec.Body.String())
	}
	if !sawDelete {
		t.Fatal("quantité 0 doit déclencher DELETE /cart/x1 en amont")
	}
}
