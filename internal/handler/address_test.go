package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/addrbook/addrbook/internal/handler/dto"
	"github.com/addrbook/addrbook/internal/model"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newRequest(method, path, body string) *http.Request {
	return httptest.NewRequest(method, path, strings.NewReader(body))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAddressHandler_List(t *testing.T) {
	api := newTestAPI(t)
	ada := api.seed(t, "ada",
		model.Address{Name: "Home", Street: "1 Main St", CountryCode: "GB"},
		model.Address{Name: "Work", Street: "2 High St", CountryCode: "GB"},
	)
	api.seed(t, "bob", model.Address{Name: "Flat"})

	rec, resp := api.do(t, http.MethodGet, "/users/"+itoa(ada.ID)+"/addresses", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var result struct {
		Records []dto.AddressResponse `json:"records"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(result.Records))
	}
	if result.Records[0].Name != "Home" || result.Records[1].Name != "Work" {
		t.Errorf("unexpected order: %+v", result.Records)
	}
}

func TestAddressHandler_List_Empty(t *testing.T) {
	api := newTestAPI(t)
	bob := api.seed(t, "bob")

	for _, path := range []string{"/users/" + itoa(bob.ID) + "/addresses", "/users/999/addresses"} {
		rec, resp := api.do(t, http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", path, rec.Code)
		}
		if resp.Code != "404.addrbook.4040" {
			t.Errorf("%s: unexpected code %s", path, resp.Code)
		}
	}
}

func TestAddressHandler_Update(t *testing.T) {
	api := newTestAPI(t)
	ada := api.seed(t, "ada", model.Address{Name: "Home", Street: "1 Main St", CountryCode: "GB"})
	addrID := ada.Addresses[0].ID

	path := "/users/" + itoa(ada.ID) + "/addresses/" + itoa(addrID)
	rec, resp := api.do(t, http.MethodPut, path, `{"name":"Office","street":"5 Av","country_code":"MX"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if len(resp.Result) != 0 {
		t.Errorf("expected no result, got %s", resp.Result)
	}

	addr, err := api.store.FindAddressByID(context.Background(), addrID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.Name != "Office" || addr.Street != "5 Av" || addr.CountryCode != "MX" {
		t.Errorf("unexpected address: %+v", addr)
	}
	if addr.UserID != ada.ID {
		t.Errorf("expected owner %d, got %d", ada.ID, addr.UserID)
	}
}

func TestAddressHandler_Update_OwnershipMismatch(t *testing.T) {
	api := newTestAPI(t)
	ada := api.seed(t, "ada", model.Address{Name: "Home", Street: "1 Main St", CountryCode: "GB"})
	bob := api.seed(t, "bob")
	addrID := ada.Addresses[0].ID

	path := "/users/" + itoa(bob.ID) + "/addresses/" + itoa(addrID)
	rec, resp := api.do(t, http.MethodPut, path, `{"name":"Stolen"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if resp.Code != "400.addrbook.4000" {
		t.Errorf("unexpected code: %s", resp.Code)
	}

	addr, err := api.store.FindAddressByID(context.Background(), addrID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.Name != "Home" || addr.UserID != ada.ID {
		t.Errorf("expected address unchanged, got %+v", addr)
	}
}

func TestAddressHandler_Update_NotFound(t *testing.T) {
	api := newTestAPI(t)
	ada := api.seed(t, "ada")

	rec, resp := api.do(t, http.MethodPut, "/users/"+itoa(ada.ID)+"/addresses/77", `{"name":"x"}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if resp.Code != "404.addrbook.4040" {
		t.Errorf("unexpected code: %s", resp.Code)
	}
}
