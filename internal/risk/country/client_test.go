package country

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const colombia = `[{
  "cca3": "COL",
  "capital": ["Bogotá"],
  "region": "Americas",
  "subregion": "South America",
  "population": 50882884,
  "name": {"common": "Colombia", "official": "Republic of Colombia"},
  "languages": {"spa": "Spanish"},
  "currencies": {"COP": {"name": "Colombian peso", "symbol": "$"}},
  "timezones": ["UTC-05:00"]
}]`

func newAPI(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if !strings.Contains(r.URL.Query().Get("fields"), "cca3") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch strings.ToUpper(r.URL.Path) {
		case "/ALPHA/COL":
			_, _ = w.Write([]byte(colombia))
		case "/ALL":
			_, _ = w.Write([]byte(colombia))
		case "/ALPHA/EMP":
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status":404,"message":"Not Found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestClientGetCountryByCCA3(t *testing.T) {
	srv, _ := newAPI(t)
	c := NewClient(srv.URL + "/")

	country, err := c.GetCountryByCCA3(context.Background(), "col")
	require.NoError(t, err)
	require.Equal(t, "COL", country.CCA3)
	require.Equal(t, "Bogotá", country.Capital)
	require.Equal(t, "Colombia", country.Names.Common)
	require.Equal(t, "Colombian peso", country.Currencies["COP"].Name)
	require.Equal(t, []string{"UTC-05:00"}, country.Timezones)

	_, err = c.GetCountryByCCA3(context.Background(), "XYZ")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetCountryByCCA3(context.Background(), "EMP")
	require.ErrorIs(t, err, ErrNotFound)

	all, err := c.ListCountries(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestDecodeCountriesAcceptsObject(t *testing.T) {
	t.Parallel()
	got, err := decodeCountries([]byte(` {"cca3":"AUS","capital":[]} `))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "AUS", got[0].toDomain().CCA3)
	require.Empty(t, got[0].toDomain().Capital)
}
