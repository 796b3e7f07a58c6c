package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/export"
	"github.com/kiranshivaraju/shopfloor/internal/store"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// --- fake key store ---

type fakeKeys struct {
	tenantID uuid.UUID
	keys     []*models.APIKey
	closed   bool
	gotURL   string
}

func (f *fakeKeys) GetDefaultTenant(_ context.Context) (*models.Tenant, error) {
	return &models.Tenant{ID: f.tenantID, Name: "Default", Slug: "default"}, nil
}

func (f *fakeKeys) CreateAPIKey(_ context.Context, key *models.APIKey) error {
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeKeys) ListAPIKeys(_ context.Context, _ uuid.UUID) ([]*models.APIKey, error) {
	return f.keys, nil
}

func (f *fakeKeys) RevokeAPIKey(_ context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	for _, k := range f.keys {
		if k.ID == id && k.TenantID == tenantID {
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeKeys) opener() KeyStoreOpener {
	return func(_ context.Context, url string) (KeyStore, func(), error) {
		f.gotURL = url
		return f, func() { f.closed = true }, nil
	}
}

// run executes shopctl with args and stdin, returning stdout.
func run(t *testing.T, keys *fakeKeys, stdin string, args ...string) (string, error) {
	t.Helper()
	if keys == nil {
		keys = &fakeKeys{tenantID: uuid.New()}
	}
	root := NewRootCmd(keys.opener())
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const truckSession = `{
  "vehicle_type": "truck",
  "sections": [
    {"title": "Brakes", "items": [
      {"name": "Steer 1 brake lining", "status": "fail", "notes": "Lining below spec"},
      {"name": "Drive 1 brake lining", "status": "ok"},
      {"name": "Drive 2 brake lining", "status": "recommend"}
    ]}
  ]
}`

func TestSortCmd_Stdin(t *testing.T) {
	in := `{"jobs":[
	  {"complaint":"brake noise","job_type":"repair"},
	  {"complaint":"oil change","job_type":"Maintenance"},
	  {"complaint":"no start","job_type":"diagnosis"}
	]}`

	out, err := run(t, nil, in, "sort")

	require.NoError(t, err)
	var jobs []rankedJob
	require.NoError(t, json.Unmarshal([]byte(out), &jobs))
	require.Len(t, jobs, 3)
	assert.Equal(t, models.JobTypeDiagnosis, jobs[0].JobType)
	assert.Equal(t, models.JobTypeMaintenance, jobs[1].JobType)
	assert.Equal(t, 4, jobs[2].Rank)
}

func TestSortCmd_InvalidJob(t *testing.T) {
	_, err := run(t, nil, `{"jobs":[{"complaint":"","job_type":"repair"}]}`, "sort")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobs[0].complaint")
}

func TestSortCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"jobs":[{"complaint":"x","job_type":"repair"}]}`), 0o600))

	out, err := run(t, nil, "", "sort", "-f", path)

	require.NoError(t, err)
	assert.Contains(t, out, `"rank": 4`)
}

func TestSortCmd_MissingFile(t *testing.T) {
	_, err := run(t, nil, "", "sort", "-f", filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}

func TestLaborCmd(t *testing.T) {
	out, err := run(t, nil, truckSession, "labor")

	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, float64(3), got["axles"])
	assert.Equal(t, float64(3), got["hours"])
	assert.Equal(t, "default", got["source"])
}

func TestLaborCmd_NormalizesInput(t *testing.T) {
	tests := []struct {
		name     string
		session  string
		vehicle  string
		expected float64
	}{
		{
			name:     "mixed case car",
			session:  `{"vehicle_type":"Car","sections":[{"title":"Oil Change","items":[]}]}`,
			vehicle:  "car",
			expected: 2.0,
		},
		{
			name:     "items keyed by item",
			session:  `{"vehicle_type":"truck","sections":[{"items":[{"item":"Steer 1 pad"},{"item":"Drive 1 pad"}]}]}`,
			vehicle:  "truck",
			expected: 2.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, nil, tt.session, "labor")

			require.NoError(t, err)
			var got map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.vehicle, got["vehicle_type"])
			assert.Equal(t, tt.expected, got["hours"])
		})
	}
}

func TestQuoteCmd_WritesXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.xlsx")

	out, err := run(t, nil, truckSession, "quote", "--xlsx", path)

	require.NoError(t, err)
	var q struct {
		Lines []models.QuoteLineItem `json:"lines"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	require.Len(t, q.Lines, 2)
	assert.Equal(t, "Lining below spec", q.Lines[0].Description)
	assert.Equal(t, 3.0, q.Lines[0].LaborHours)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
}

func TestKeysCreate(t *testing.T) {
	keys := &fakeKeys{tenantID: uuid.New()}

	out, err := run(t, keys, "", "keys", "create", "--name", "bay-3", "--scopes", "read,write", "--database-url", "postgres://db/shop")

	require.NoError(t, err)
	assert.Equal(t, "postgres://db/shop", keys.gotURL)
	assert.True(t, keys.closed)
	require.Len(t, keys.keys, 1)
	assert.Equal(t, keys.tenantID, keys.keys[0].TenantID)
	assert.Equal(t, []string{"read", "write"}, keys.keys[0].Scopes)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, strings.HasPrefix(got["key"].(string), "sfk_"))
}

func TestKeysCreate_RequiresName(t *testing.T) {
	_, err := run(t, nil, "", "keys", "create", "--database-url", "postgres://db/shop")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestKeys_DatabaseURLFromEnv(t *testing.T) {
	t.Setenv(envDatabaseURL, "postgres://env/shop")
	keys := &fakeKeys{tenantID: uuid.New()}

	_, err := run(t, keys, "", "keys", "list")

	require.NoError(t, err)
	assert.Equal(t, "postgres://env/shop", keys.gotURL)
}

func TestKeys_RequiresDatabaseURL(t *testing.T) {
	t.Setenv(envDatabaseURL, "")

	_, err := run(t, nil, "", "keys", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL is required")
}

func TestKeysList(t *testing.T) {
	tenantID := uuid.New()
	keys := &fakeKeys{tenantID: tenantID, keys: []*models.APIKey{
		{ID: uuid.New(), TenantID: tenantID, Name: "ci", KeyPrefix: "sfk_abcd", Scopes: []string{"read", "write"}},
	}}

	out, err := run(t, keys, "", "keys", "list", "--database-url", "postgres://db/shop")

	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "sfk_abcd")
	assert.Contains(t, out, "read,write")
	assert.Contains(t, out, "never")
}

func TestKeysRevoke(t *testing.T) {
	tenantID := uuid.New()
	id := uuid.New()
	keys := &fakeKeys{tenantID: tenantID, keys: []*models.APIKey{{ID: id, TenantID: tenantID, Name: "old"}}}

	out, err := run(t, keys, "", "keys", "revoke", "--id", id.String(), "--database-url", "postgres://db/shop")

	require.NoError(t, err)
	assert.Contains(t, out, "revoked")
}

func TestKeysRevoke_NotFound(t *testing.T) {
	_, err := run(t, nil, "", "keys", "revoke", "--id", uuid.NewString(), "--database-url", "postgres://db/shop")

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestKeysRevoke_InvalidID(t *testing.T) {
	_, err := run(t, nil, "", "keys", "revoke", "--id", "abc", "--database-url", "postgres://db/shop")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key id")
}
