package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"medeasy/internal/models"
)

func roleContext(t *testing.T, email string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/users", nil)
	if email != "" {
		c.Set(ContextEmailKey, email)
	}
	return w, c
}

func decodeRoleBody(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()

	var body struct {
		Error string `json:"error"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response parse failed: %v", err)
	}
	return body.Error, body.Role
}

func userDoc(email, role string) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "name", Value: "Test User"},
		{Key: "email", Value: email},
		{Key: "role", Value: role},
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	w, c := roleContext(t, "")

	RequireRole(nil, models.RoleAdmin)(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without verified identity, got %d", w.Code)
	}
	if !c.IsAborted() {
		t.Fatal("expected request to be aborted")
	}
}

func TestRequireRoleMismatchDisclosesActualRole(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("buyer hits admin route", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch,
			userDoc("buyer@x.com", models.RoleBuyer)))

		w, c := roleContext(mt.T, "buyer@x.com")
		RequireRole(mt.DB, models.RoleAdmin)(c)

		if w.Code != http.StatusForbidden {
			mt.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
		}
		errMsg, role := decodeRoleBody(mt.T, w)
		if errMsg != "forbidden" || role != models.RoleBuyer {
			mt.Fatalf("expected forbidden with role %q disclosed, got error=%q role=%q",
				models.RoleBuyer, errMsg, role)
		}
	})
}

func TestRequireRoleNoHierarchy(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("admin hits seller route", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch,
			userDoc("admin@x.com", models.RoleAdmin)))

		w, c := roleContext(mt.T, "admin@x.com")
		RequireRole(mt.DB, models.RoleSeller)(c)

		if w.Code != http.StatusForbidden {
			mt.Fatalf("expected admin to be refused on a seller route, got %d", w.Code)
		}
		_, role := decodeRoleBody(mt.T, w)
		if role != models.RoleAdmin {
			mt.Fatalf("expected disclosed role %q, got %q", models.RoleAdmin, role)
		}
	})
}

func TestRequireRoleMissingUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no user record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		w, c := roleContext(mt.T, "ghost@x.com")
		RequireRole(mt.DB, models.RoleAdmin)(c)

		if w.Code != http.StatusForbidden {
			mt.Fatalf("expected 403 for unknown user, got %d", w.Code)
		}
		_, role := decodeRoleBody(mt.T, w)
		if role != "" {
			mt.Fatalf("expected empty disclosed role, got %q", role)
		}
	})
}

func TestRequireRoleMatchPasses(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("admin hits admin route", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch,
			userDoc("admin@x.com", models.RoleAdmin)))

		w, c := roleContext(mt.T, "admin@x.com")
		RequireRole(mt.DB, models.RoleAdmin)(c)

		if c.IsAborted() {
			mt.Fatalf("expected matching role to pass, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestRequireRoleLookupFailure(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("store error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Message: "interrupted",
			Name:    "InterruptedAtShutdown",
		}))

		w, c := roleContext(mt.T, "buyer@x.com")
		RequireRole(mt.DB, models.RoleAdmin)(c)

		if w.Code != http.StatusInternalServerError {
			mt.Fatalf("expected 500 on lookup failure, got %d", w.Code)
		}
	})
}
