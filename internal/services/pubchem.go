package services

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/uscann/chemtrack/internal/types"
)

// Compound is what PubChem knows about a CAS number.
type Compound struct {
	CASNumber        string `json:"cas_number"`
	Name             string `json:"name"`
	MolecularFormula string `json:"molecular_formula"`
	IUPACName        string `json:"iupac_name"`
}

// CompoundLookup resolves CAS numbers to compounds.
type CompoundLookup interface {
	LookupCAS(ctx context.Context, cas string) (*Compound, error)
}

type pubchemProperty struct {
	Title            string `json:"Title"`
	MolecularFormula string `json:"MolecularFormula"`
	IUPACName        string `json:"IUPACName"`
}

type pubchemPropertyResponse struct {
	PropertyTable struct {
		Properties []pubchemProperty `json:"Properties"`
	} `json:"PropertyTable"`
}

// PubChemClient queries the PubChem PUG REST API.
type PubChemClient struct {
	client *resty.Client
}

func NewPubChemClient(baseURL string, timeout time.Duration) *PubChemClient {
	return &PubChemClient{
		client: resty.New().
			SetTimeout(timeout).
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json"),
	}
}

var casPattern = regexp.MustCompile(`^(\d{2,7})-(\d{2})-(\d)$`)

// ValidCAS reports whether s is a well-formed CAS registry number with a
// correct check digit.
func ValidCAS(s string) bool {
	m := casPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	digits := m[1] + m[2]
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * (len(digits) - i)
	}
	return sum%10 == int(m[3][0]-'0')
}

// LookupCAS returns the compound registered under a CAS number.
func (p *PubChemClient) LookupCAS(ctx context.Context, cas string) (*Compound, error) {
	cas = strings.TrimSpace(cas)
	if cas == "" {
		return nil, types.BadRequest("cas is required")
	}
	if !ValidCAS(cas) {
		return nil, types.BadRequest("invalid CAS number %q", cas)
	}

	propResp := &pubchemPropertyResponse{}
	res, err := p.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"cas":   cas,
			"props": "Title,MolecularFormula,IUPACName",
		}).
		SetResult(propResp).
		Get("/rest/pug/compound/name/{cas}/property/{props}/JSON")
	if err != nil {
		return nil, types.Upstream(err, "PubChem request failed")
	}

	switch res.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, types.NotFound("no compound found for CAS %s", cas)
	default:
		return nil, types.Upstream(fmt.Errorf("status %d", res.StatusCode()), "PubChem lookup failed with status %d", res.StatusCode())
	}

	if len(propResp.PropertyTable.Properties) == 0 {
		return nil, types.Upstream(nil, "PubChem returned no properties for CAS %s", cas)
	}

	prop := propResp.PropertyTable.Properties[0]
	name := prop.Title
	if name == "" {
		name = prop.IUPACName
	}

	return &Compound{
		CASNumber:        cas,
		Name:             name,
		MolecularFormula: prop.MolecularFormula,
		IUPACName:        prop.IUPACName,
	}, nil
}
