package sources

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitefeed/sitefeed/scraper"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("sqlite3", filepath.Join(t.TempDir(), "sources.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testParams(name string) scraper.RequestParams {
	return scraper.RequestParams{
		Name:         name,
		URL:          "https://example.com/feed/",
		ItemSelector: ".item",
		DateSelector: ".published",
		Order:        "reversed",
		MaxItems:     10,
	}
}

// TestStore_AddAndGet verifies the save/load round trip, including the
// clamp and defaulting applied at save time.
func TestStore_AddAndGet(t *testing.T) {
	store := testStore(t)

	source, err := store.Add(testParams("blog"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, source.ID)

	loaded, err := store.GetByName("blog")
	require.NoError(t, err)
	assert.Equal(t, source.ID, loaded.ID)
	assert.Equal(t, "https://example.com/feed/", loaded.URL)
	assert.Equal(t, ".item", loaded.ItemSelector)
	assert.Equal(t, ".published", loaded.DateSelector)
	assert.Equal(t, "reversed", loaded.Order)
	assert.Equal(t, 10, loaded.MaxItems)

	// The stored row must build back into a usable request.
	req, err := loaded.Params().Build()
	require.NoError(t, err)
	assert.Equal(t, scraper.OrderReversed, req.Order)
	assert.True(t, req.HasDateSelector())
}

// TestStore_AddValidates verifies broken requests are rejected at save
// time, not at serve time.
func TestStore_AddValidates(t *testing.T) {
	store := testStore(t)

	params := testParams("broken")
	params.ItemSelector = "!!"

	_, err := store.Add(params)
	var selErr *scraper.SelectorError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "item_selector", selErr.Field)
}

// TestStore_DuplicateName verifies the unique-name constraint maps to the
// sentinel error.
func TestStore_DuplicateName(t *testing.T) {
	store := testStore(t)

	_, err := store.Add(testParams("blog"))
	require.NoError(t, err)

	_, err = store.Add(testParams("blog"))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

// TestStore_List verifies listing returns every saved source.
func TestStore_List(t *testing.T) {
	store := testStore(t)

	_, err := store.Add(testParams("one"))
	require.NoError(t, err)
	_, err = store.Add(testParams("two"))
	require.NoError(t, err)

	saved, err := store.List()
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

// TestStore_Delete verifies deletion and the not-found sentinel.
func TestStore_Delete(t *testing.T) {
	store := testStore(t)

	_, err := store.Add(testParams("blog"))
	require.NoError(t, err)

	require.NoError(t, store.Delete("blog"))

	_, err = store.GetByName("blog")
	assert.ErrorIs(t, err, ErrSourceNotFound)

	assert.ErrorIs(t, store.Delete("blog"), ErrSourceNotFound)
}

// TestStore_UnsupportedDriver verifies the driver allowlist.
func TestStore_UnsupportedDriver(t *testing.T) {
	_, err := NewStore("mysql", "dsn")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

// TestRebind verifies placeholder rewriting for the postgres driver.
func TestRebind(t *testing.T) {
	sqlite := &Store{driver: "sqlite3"}
	postgres := &Store{driver: "postgres"}

	query := "SELECT * FROM sources WHERE name = ? AND url = ?"
	assert.Equal(t, query, sqlite.rebind(query))
	assert.Equal(t, "SELECT * FROM sources WHERE name = $1 AND url = $2", postgres.rebind(query))
}
