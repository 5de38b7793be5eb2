package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menagerie/pkg/domain"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeDocument(t *testing.T, animals []domain.Animal) string {
	t.Helper()
	data, err := domain.EncodeDocument(animals)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "animals.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func sampleAnimals() []domain.Animal {
	return []domain.Animal{
		{ID: "0", Name: "Erica", Species: "gorilla", Diet: "omnivore", PersonalityTraits: []string{"quirky", "rash"}},
		{ID: "1", Name: "Noel", Species: "bear", Diet: "carnivore", PersonalityTraits: []string{"impish", "sassy"}},
	}
}

func execute(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr syncBuffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "LOG_LEVEL", "MENAGERIE_STORAGE_DRIVER", "MENAGERIE_SEED_PATH", "MENAGERIE_DATA_PATH"} {
		t.Setenv(key, "")
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, context.Background(), "version")
	require.NoError(t, err)
	assert.Equal(t, "menagerie dev\n", out)
}

func TestCheckValidDocument(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MENAGERIE_DATA_PATH", writeDocument(t, sampleAnimals()))
	out, _, err := execute(t, context.Background(), "check")
	require.NoError(t, err)
	assert.Contains(t, out, "checked 2 records from file, 0 invalid")
}

func TestCheckReportsInvalidRecords(t *testing.T) {
	isolateEnv(t)
	animals := sampleAnimals()
	animals[1].Diet = ""
	animals = append(animals, domain.Animal{ID: "9", Name: "Ghost", Species: "cat", Diet: "carnivore", PersonalityTraits: []string{"shy"}})
	t.Setenv("MENAGERIE_DATA_PATH", writeDocument(t, animals))

	out, errOut, err := execute(t, context.Background(), "check")
	require.Error(t, err)
	assert.Contains(t, out, `record 1 (id "1")`)
	assert.Contains(t, out, "1 invalid")
	assert.Contains(t, errOut, `record 2 carries id "9"`)
}

func TestCheckFallsBackToSeed(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MENAGERIE_STORAGE_DRIVER", "memory")
	seed := writeDocument(t, sampleAnimals())
	t.Setenv("MENAGERIE_SEED_PATH", seed)
	out, _, err := execute(t, context.Background(), "check")
	require.NoError(t, err)
	assert.Contains(t, out, "from "+seed)
}

func TestServeFailsWithoutDocument(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MENAGERIE_DATA_PATH", filepath.Join(t.TempDir(), "missing.json"))
	_, _, err := execute(t, context.Background(), "serve")
	require.ErrorIs(t, err, domain.ErrNoDocument)
}

func TestServeRejectsBadConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MENAGERIE_STORAGE_DRIVER", "tape")
	_, _, err := execute(t, context.Background())
	assert.ErrorContains(t, err, "unknown storage driver")
}

var bannerPort = regexp.MustCompile(`API server now on port (\d+)`)

func TestServeAnswersRequests(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "0")
	t.Setenv("MENAGERIE_DATA_PATH", writeDocument(t, sampleAnimals()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var stdout, stderr syncBuffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--config", ""})
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	var port string
	require.Eventually(t, func() bool {
		m := bannerPort.FindStringSubmatch(stdout.String())
		if m == nil {
			return false
		}
		port = m[1]
		return true
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Get("http://127.0.0.1:" + port + "/api/animals?species=bear")
	require.NoError(t, err)
	var got []domain.Animal
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	require.Len(t, got, 1)
	assert.Equal(t, "Noel", got[0].Name)

	resp, err = http.Get("http://127.0.0.1:" + port + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
