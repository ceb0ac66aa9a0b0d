package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/emre/sinavmarket/internal/app/models/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// bindRegister binds a register payload the way every controller does and
// routes the failure through bindJSONError.
func bindRegister(t *testing.T, body string) (*httptest.ResponseRecorder, *dto.ErrorResponse) {
	t.Helper()

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req

	var payload dto.RegisterRequest
	err := ctx.ShouldBindJSON(&payload)
	if err == nil {
		t.Fatalf("expected binding to fail for body %q", body)
	}
	bindJSONError(ctx, err)

	var resp dto.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return recorder, &resp
}

func TestBindJSONError_FormatsFieldFailures(t *testing.T) {
	recorder, resp := bindRegister(t, `{"email":"not-an-email","password":"short"}`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
	if resp.Success {
		t.Fatal("success = true, want false")
	}
	if resp.Error == nil || resp.Error.Code != dto.ErrorCodeValidationFailed {
		t.Fatalf("error code = %+v, want %s", resp.Error, dto.ErrorCodeValidationFailed)
	}

	details, ok := resp.Error.Details.(string)
	if !ok {
		t.Fatalf("details = %T, want string", resp.Error.Details)
	}
	for _, want := range []string{
		"Email must be a valid email address",
		"Password must be at least 8",
		"FirstName is required",
		"LastName is required",
	} {
		if !strings.Contains(details, want) {
			t.Errorf("details %q missing %q", details, want)
		}
	}
}

func TestBindJSONError_MalformedJSONFallsBack(t *testing.T) {
	recorder, resp := bindRegister(t, `{"email":`)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
	if resp.Error == nil || resp.Error.Code != dto.ErrorCodeValidationFailed {
		t.Fatalf("error code = %+v, want %s", resp.Error, dto.ErrorCodeValidationFailed)
	}
	if details, ok := resp.Error.Details.(string); !ok || details == "" {
		t.Fatalf("details = %v, want the raw binding error text", resp.Error.Details)
	}
}

func TestParseUUIDParam_RejectsInvalidID(t *testing.T) {
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	if _, ok := parseUUIDParam(ctx, "id"); ok {
		t.Fatal("parseUUIDParam accepted an invalid uuid")
	}
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
}
