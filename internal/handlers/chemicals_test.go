package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/uscann/chemtrack/internal/services"
	"github.com/uscann/chemtrack/internal/testutil"
)

func TestCreateChemicalRoutes(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture

	// Mobile clients send ids and amounts as strings.
	body := fmt.Sprintf(`{"name":"Ethanol","cas_number":"64-17-5","barcode":"CHEM-100","room_id":"%d","amount":"3","unit":"kg","expiration_date":"2028-01-15"}`, f.Room201.ID)
	resp := env.do(t, http.MethodPost, "/add_chemical", body)
	testutil.AssertStatus(t, resp, http.StatusCreated)

	var created services.ChemicalCreated
	testutil.ParseJSON(t, resp, &created)
	assert.Equal(t, "CHEM-100", created.Barcode)
	assert.InDelta(t, 6.61386, created.TotalWeightLbs, 1e-9)
	assert.Equal(t, "201", created.RoomNumber)
	assert.Equal(t, "Physics", created.BuildingName)

	resp = env.do(t, http.MethodPost, "/chemicals", map[string]interface{}{
		"name": "Ethanol", "cas_number": "64-17-5", "barcode": "CHEM-100",
		"room_id": f.Room201.ID, "amount": 1, "unit": "kg",
	})
	testutil.AssertStatus(t, resp, http.StatusConflict)
	assert.Equal(t, "barcode already in use", errorBody(t, resp).Message)

	resp = env.do(t, http.MethodPost, "/chemicals", map[string]interface{}{"name": "Ethanol"})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	assert.Contains(t, errorBody(t, resp).Message, "Missing required fields")

	for _, amount := range []string{"NaN", "Inf"} {
		body := fmt.Sprintf(`{"name":"Ethanol","cas_number":"64-17-5","barcode":"CHEM-101","room_id":%d,"amount":%q,"unit":"kg"}`, f.Room201.ID, amount)
		resp = env.do(t, http.MethodPost, "/add_chemical", body)
		testutil.AssertStatus(t, resp, http.StatusBadRequest)
	}

	resp = env.do(t, http.MethodGet, "/chemicals/query?barcode=CHEM-101", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var hits []services.ChemicalView
	testutil.ParseJSON(t, resp, &hits)
	assert.Empty(t, hits)
}

func TestListAndQueryRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/chemicals", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var all []services.ChemicalView
	testutil.ParseJSON(t, resp, &all)
	require.Len(t, all, 3)
	assert.Equal(t, "101", all[0].Room)
	assert.Equal(t, "Shelf A", all[0].Space)

	for i := 0; i < 2; i++ {
		resp = env.do(t, http.MethodGet, "/chemicals/query?name=Acetone&cas_number=67-64-1", nil)
		testutil.AssertStatus(t, resp, http.StatusOK)
		var hits []services.ChemicalView
		testutil.ParseJSON(t, resp, &hits)
		require.Len(t, hits, 2)
		assert.Equal(t, "CHEM-001", hits[0].Barcode)
		assert.Equal(t, "CHEM-003", hits[1].Barcode)
	}
}

func TestChemicalsByRoomRoute(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture

	resp := env.do(t, http.MethodGet, fmt.Sprintf("/chemicals/room/%d", f.Room102.ID), nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var body RoomChemicals
	testutil.ParseJSON(t, resp, &body)
	assert.Equal(t, []services.RoomChemical{{RoomID: f.Room102.ID, Barcode: "CHEM-002", Name: "Sodium Chloride"}}, body.Chemicals)

	resp = env.do(t, http.MethodGet, "/chemicals/room/9999", nil)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	assert.Equal(t, "No chemicals found for the given room ID", errorBody(t, resp).Message)
}

func TestUpdateAndDeleteChemicalRoutes(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture

	resp := env.do(t, http.MethodPut, "/chemicals/update", map[string]interface{}{
		"id": f.Salt.ID, "name": "Sodium Chloride", "cas_number": "7647-14-5", "barcode": "CHEM-002",
		"amount": 4, "unit": "lbs", "expiration_date": "2029-12-31",
	})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var view services.ChemicalView
	testutil.ParseJSON(t, resp, &view)
	assert.Equal(t, 4.0, view.Amount)
	assert.Equal(t, "2029-12-31", view.ExpirationDate)

	resp = env.do(t, http.MethodPut, "/chemicals/update", map[string]interface{}{"id": f.Salt.ID, "name": "Salt"})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/chemicaldelete/%d", f.Salt.ID), nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var msg map[string]string
	testutil.ParseJSON(t, resp, &msg)
	assert.Equal(t, "Chemical deleted successfully", msg["message"])

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/chemicaldelete/%d", f.Salt.ID), nil)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
}

func TestScanRoute(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture

	resp := env.do(t, http.MethodPost, "/scan/check_chemical", map[string]interface{}{"barcode": "CHEM-001", "selected_room_id": fmt.Sprint(f.Room101.ID)})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var match services.ScanResult
	testutil.ParseJSON(t, resp, &match)
	assert.True(t, match.Match)
	require.NotNil(t, match.ChemicalInfo)
	assert.Equal(t, "Acetone", match.ChemicalInfo.Name)

	resp = env.do(t, http.MethodPost, "/scan/check_chemical", map[string]interface{}{"barcode": "CHEM-001", "selected_room_id": f.Room201.ID})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var mismatch services.ScanResult
	testutil.ParseJSON(t, resp, &mismatch)
	assert.False(t, mismatch.Match)
	assert.Equal(t, "Please return this chemical to 101, Chemistry Shelf A", mismatch.Alert)
	assert.Nil(t, mismatch.ChemicalInfo)

	resp = env.do(t, http.MethodPost, "/scan/check_chemical", map[string]interface{}{"barcode": "NOPE", "selected_room_id": f.Room101.ID})
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	assert.Equal(t, "Sorry, that chemical is not found", errorBody(t, resp).Message)
}

func TestSearchRoute(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture
	search := map[string]interface{}{"query": "acetone", "filter": "All PIs"}

	resp := env.do(t, http.MethodPost, "/search-chemical", search)
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)

	req := testutil.JSONRequest(t, http.MethodPost, "/search-chemical", search)
	req.Header.Set("Authorization", "Bearer "+env.token(t, f.Alice.ID, services.RoleUser))
	resp = testutil.Do(t, env.app, req)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var hits []services.SearchHit
	testutil.ParseJSON(t, resp, &hits)
	require.Len(t, hits, 1)
	assert.Equal(t, "CHEM-001", hits[0].Barcode)

	// Fermi's rooms are outside Alice's scope.
	req = testutil.JSONRequest(t, http.MethodPost, "/search-chemical", map[string]interface{}{
		"query": "acetone", "filter": "CurrentPI", "selected_pi_id": f.Fermi.ID,
	})
	req.Header.Set("Authorization", "Bearer "+env.token(t, f.Alice.ID, services.RoleUser))
	resp = testutil.Do(t, env.app, req)
	testutil.AssertStatus(t, resp, http.StatusForbidden)

	req = testutil.JSONRequest(t, http.MethodPost, "/search-chemical", search)
	req.Header.Set("Authorization", "Bearer "+env.token(t, f.Fermi.ID, services.RolePI))
	resp = testutil.Do(t, env.app, req)
	testutil.AssertStatus(t, resp, http.StatusOK)
	hits = nil
	testutil.ParseJSON(t, resp, &hits)
	require.Len(t, hits, 1)
	assert.Equal(t, "CHEM-003", hits[0].Barcode)
}

func TestLookupRoute(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/chemicals/lookup?cas=67-64-1", nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	var compound services.Compound
	testutil.ParseJSON(t, resp, &compound)
	assert.Equal(t, "Acetone", compound.Name)
	assert.Equal(t, "C3H6O", compound.MolecularFormula)

	resp = env.do(t, http.MethodGet, "/chemicals/lookup?cas=50-00-0", nil)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
}

func TestExportRoute(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture

	resp := env.do(t, http.MethodGet, fmt.Sprintf("/chemicals/export?room_id=%d", f.Room101.ID), nil)
	testutil.AssertStatus(t, resp, http.StatusOK)
	assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), fmt.Sprintf("inventory-room-%d-", f.Room101.ID))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(services.InventorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CHEM-001", rows[1][0])

	resp = env.do(t, http.MethodGet, "/chemicals/export?room_id=x", nil)
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
}
