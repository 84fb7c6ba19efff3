package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uscann/chemtrack/internal/types"
)

func TestValidCAS(t *testing.T) {
	for _, cas := range []string{"67-64-1", "7647-14-5", "64-17-5", "7732-18-5"} {
		assert.True(t, ValidCAS(cas), cas)
	}
	for _, cas := range []string{"", "67-64-2", "67641", "6-64-1", "67-6-1", "abc-de-f"} {
		assert.False(t, ValidCAS(cas), cas)
	}
}

func newPubChemServer(t *testing.T, handler http.HandlerFunc) *PubChemClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPubChemClient(srv.URL+"/", 2*time.Second)
}

func TestLookupCAS(t *testing.T) {
	var path string
	client := newPubChemServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"PropertyTable":{"Properties":[{"CID":180,"MolecularFormula":"C3H6O","IUPACName":"propan-2-one","Title":"Acetone"}]}}`))
	})

	compound, err := client.LookupCAS(context.Background(), " 67-64-1 ")
	require.NoError(t, err)
	assert.Equal(t, "/rest/pug/compound/name/67-64-1/property/Title,MolecularFormula,IUPACName/JSON", path)
	assert.Equal(t, &Compound{
		CASNumber:        "67-64-1",
		Name:             "Acetone",
		MolecularFormula: "C3H6O",
		IUPACName:        "propan-2-one",
	}, compound)
}

func TestLookupCASFallsBackToIUPACName(t *testing.T) {
	client := newPubChemServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"PropertyTable":{"Properties":[{"MolecularFormula":"NaCl","IUPACName":"sodium chloride"}]}}`))
	})

	compound, err := client.LookupCAS(context.Background(), "7647-14-5")
	require.NoError(t, err)
	assert.Equal(t, "sodium chloride", compound.Name)
}

func TestLookupCASFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errType string
	}{
		{"not found", http.StatusNotFound, `{"Fault":{"Code":"PUGREST.NotFound"}}`, types.ErrTypeNotFound},
		{"server error", http.StatusServiceUnavailable, `{}`, types.ErrTypeUpstream},
		{"empty table", http.StatusOK, `{"PropertyTable":{"Properties":[]}}`, types.ErrTypeUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newPubChemServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.LookupCAS(context.Background(), "67-64-1")
			require.Error(t, err)
			assert.True(t, types.IsType(err, tt.errType), err.Error())
		})
	}
}

func TestLookupCASValidation(t *testing.T) {
	calls := 0
	client := newPubChemServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	_, err := client.LookupCAS(context.Background(), "")
	assert.True(t, types.IsType(err, types.ErrTypeValidation))
	_, err = client.LookupCAS(context.Background(), "67-64-9")
	assert.True(t, types.IsType(err, types.ErrTypeValidation))
	assert.Zero(t, calls)
}

func TestLookupCASUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewPubChemClient(url, time.Second).LookupCAS(context.Background(), "67-64-1")
	assert.True(t, types.IsType(err, types.ErrTypeUpstream))
}
