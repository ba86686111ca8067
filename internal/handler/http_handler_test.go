package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-contracts/internal/logger"
	"github.com/pesio-ai/be-contracts/internal/repository"
	"github.com/pesio-ai/be-contracts/internal/service"
)

type testServices struct {
	blueprints *service.BlueprintService
	contracts  *service.ContractService
	lifecycle  *service.LifecycleService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	store := repository.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	log := logger.NewNop()
	bpRepo := repository.NewBlueprintRepository(store, "")
	cRepo := repository.NewContractRepository(store, "")
	return &testServices{
		blueprints: service.NewBlueprintService(bpRepo, cRepo, true, log),
		contracts:  service.NewContractService(cRepo, bpRepo, nil, log),
		lifecycle:  service.NewLifecycleService(cRepo, bpRepo, nil, log),
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := newTestServices(t)
	mux := http.NewServeMux()
	NewHTTPHandler(svc.blueprints, svc.contracts, svc.lifecycle, logger.NewNop()).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func errorCode(body map[string]interface{}) string {
	e, _ := body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func createBlueprint(t *testing.T, srv *httptest.Server) (string, string) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/blueprints", map[string]interface{}{
		"name": "NDA",
		"fields": []map[string]interface{}{
			{"label": "Party", "type": "text", "required": true},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	fields := body["fields"].([]interface{})
	fieldID := fields[0].(map[string]interface{})["id"].(string)
	return body["id"].(string), fieldID
}

func createContract(t *testing.T, srv *httptest.Server, blueprintID, fieldID string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/contracts", map[string]interface{}{
		"name":        "Acme NDA",
		"blueprintId": blueprintID,
		"fieldValues": map[string]interface{}{fieldID: "Acme"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "CREATED", body["status"])
	return body["id"].(string)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestBlueprintRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/blueprints", map[string]interface{}{
		"name": "Empty",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", errorCode(body))
	details := body["error"].(map[string]interface{})["details"].([]interface{})
	assert.Equal(t, []interface{}{"At least one field is required"}, details)

	id, _ := createBlueprint(t, srv)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/blueprints/get?id="+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "NDA", body["name"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/blueprints", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/blueprints/delete?id="+id, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/blueprints/delete?id="+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/blueprints/get?id="+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestContractLifecycleRoutes(t *testing.T) {
	srv := newTestServer(t)
	bpID, fieldID := createBlueprint(t, srv)
	id := createContract(t, srv, bpID, fieldID)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/contracts/get?id="+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["locked"])
	assert.Equal(t, "badge-created", body["badgeClass"])
	actions := body["actions"].([]interface{})
	require.Len(t, actions, 1)
	assert.Equal(t, "approve", actions[0].(map[string]interface{})["id"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/contracts/send", map[string]string{"id": id})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(body))

	for _, action := range []string{"approve", "send", "sign"} {
		resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/v1/contracts/"+action, map[string]string{"id": id})
		require.Equal(t, http.StatusOK, resp.StatusCode, action)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/contracts/transition", map[string]string{
		"id": id, "status": "locked",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "LOCKED", body["status"])

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/contracts/update", map[string]interface{}{
		"id": id, "name": "changed",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "LOCKED", errorCode(body))

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/contracts/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["signed"])

	// Blueprint protection is on in the test server.
	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/blueprints/delete?id="+bpID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(body))

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/contracts/delete?id="+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestContractRoutes_Validation(t *testing.T) {
	srv := newTestServer(t)
	bpID, fieldID := createBlueprint(t, srv)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/contracts", map[string]interface{}{
		"name":        "Missing party",
		"blueprintId": bpID,
		"fieldValues": map[string]interface{}{fieldID: ""},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	details := body["error"].(map[string]interface{})["details"].([]interface{})
	assert.Equal(t, []interface{}{"Party is required"}, details)

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/v1/contracts/transition", map[string]string{
		"id": "x", "status": "ARCHIVED",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", errorCode(body))

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/contracts?group=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/v1/contracts/get", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/contracts/approve", bytes.NewBufferString("{"))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestListContractsRoute(t *testing.T) {
	srv := newTestServer(t)
	bpID, fieldID := createBlueprint(t, srv)
	first := createContract(t, srv, bpID, fieldID)
	createContract(t, srv, bpID, fieldID)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/contracts/approve", map[string]string{"id": first})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/contracts?status=approved", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/contracts?group=pending&q=acme", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["total"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/contracts?group=signed", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["total"])
}

func TestClearAllDataRoute(t *testing.T) {
	srv := newTestServer(t)
	bpID, fieldID := createBlueprint(t, srv)
	createContract(t, srv, bpID, fieldID)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/data", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/data", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/contracts", nil)
	assert.EqualValues(t, 0, body["total"])
	_, body = doJSON(t, http.MethodGet, srv.URL+"/api/v1/blueprints", nil)
	assert.EqualValues(t, 0, body["total"])
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, httpStatus("INVALID_INPUT"))
	assert.Equal(t, http.StatusNotFound, httpStatus("NOT_FOUND"))
	assert.Equal(t, http.StatusConflict, httpStatus("LOCKED"))
	assert.Equal(t, http.StatusConflict, httpStatus("INVALID_TRANSITION"))
	assert.Equal(t, http.StatusConflict, httpStatus("CONFLICT"))
	assert.Equal(t, http.StatusInternalServerError, httpStatus("INTERNAL"))
}
