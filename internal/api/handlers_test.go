package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxfile/taxfile/internal/config"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(NewHandler(config.Default2024(), nil, nil))
}

func computeBody(t *testing.T) []byte {
	t.Helper()
	req := ComputeRequest{
		Taxpayer: TaxpayerDTO{
			FirstName:    "Maria",
			LastName:     "Santos",
			BirthDate:    "1985-05-01",
			FilingStatus: "single",
		},
		W2s: []WageStatementDTO{{
			Employer:        "Acme Corp",
			Wages:           decimal.NewFromInt(50000),
			FederalWithheld: decimal.NewFromInt(4000),
		}},
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return body
}

func TestComputeBoth(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/returns", bytes.NewReader(computeBody(t)))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ComputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2024, resp.TaxYear)
	require.NotNil(t, resp.Federal)
	require.NotNil(t, resp.State)
	assert.True(t, resp.Federal.Get("15").Equal(decimal.NewFromInt(35400)))
	assert.True(t, resp.Federal.Get("37").Equal(decimal.NewFromInt(16)))
	assert.True(t, resp.State.Get("11").Equal(decimal.NewFromInt(50000)))
}

func TestComputeFederalOnly(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/returns/federal", bytes.NewReader(computeBody(t)))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ComputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Federal)
	assert.Nil(t, resp.State)
}

func TestComputeStateOnly(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/returns/state", bytes.NewReader(computeBody(t)))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ComputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Federal)
	assert.NotNil(t, resp.State)
}

func TestComputeRejectsInvalidJSON(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/returns", strings.NewReader("{not json"))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func TestComputeRejectsUnknownFilingStatus(t *testing.T) {
	router := testRouter(t)

	body := `{"taxpayer":{"filing_status":"divorced"},"w2s":[]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/returns", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "filing status")
}

func TestComputeRejectsUnparseableDOB(t *testing.T) {
	router := testRouter(t)

	body := `{"taxpayer":{"filing_status":"single","dob":"yesterday"},"w2s":[]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/returns", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetConfig(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/config/2024", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"year":2024`)
}

func TestGetConfigUnknownYear(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/config/1999", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestExplicitZeroStateWagesStaysZero(t *testing.T) {
	// An out-of-state W-2 posts state_wages: 0 explicitly; only an omitted
	// field defaults to box 1.
	router := testRouter(t)

	body := `{
		"taxpayer": {"filing_status": "single"},
		"w2s": [{"wages": "50000", "federal_withheld": "4000", "state_wages": "0"}]
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/returns/state", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ComputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.State.Get("1z").IsZero(), "explicit zero NJ wages must not fall back to box 1")
}

func TestDependentsFlowThroughToChildCredit(t *testing.T) {
	router := testRouter(t)

	req := ComputeRequest{
		Taxpayer: TaxpayerDTO{
			FilingStatus: "married_joint",
			Dependents: []DependentDTO{
				{FirstName: "Ana", BirthDate: "2016-03-10", Relationship: "daughter"},
			},
		},
		W2s: []WageStatementDTO{{
			Wages:           decimal.NewFromInt(95000),
			FederalWithheld: decimal.NewFromInt(8000),
		}},
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/returns/federal", bytes.NewReader(body))
	router.ServeHTTP(rec, httpReq)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ComputeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Federal.Get("_ref_ctc_after_phase").Equal(decimal.NewFromInt(2000)))
}
