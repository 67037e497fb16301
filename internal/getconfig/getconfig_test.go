package getconfig

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"cvp-getconfig/internal/client"
	"cvp-getconfig/internal/configfile"
	"cvp-getconfig/internal/logging"
	"cvp-getconfig/pkg/models"
)

type fakeSource struct {
	devices    []models.Device
	devicesErr error
	configs    map[string]models.DeviceConfig
	failOn     string
	calls      []string
}

func (f *fakeSource) GetDevices(ctx context.Context) ([]models.Device, error) {
	return f.devices, f.devicesErr
}

func (f *fakeSource) GetDeviceConfig(ctx context.Context, id string) (*models.DeviceConfig, error) {
	f.calls = append(f.calls, id)
	if id == f.failOn {
		return nil, &client.StatusError{Host: "cvp", Endpoint: client.DeviceConfigPath, DeviceID: id, StatusCode: http.StatusInternalServerError}
	}
	cfg := f.configs[id]
	return &cfg, nil
}

func newFake() *fakeSource {
	return &fakeSource{
		devices: []models.Device{
			{Hostname: "leaf1", IPAddress: "10.0.0.11", SystemMacAddress: "m1"},
			{Hostname: "leaf2", IPAddress: "10.0.0.12", SystemMacAddress: "m2"},
			{Hostname: "spine1", IPAddress: "10.0.0.1", SystemMacAddress: "m3"},
		},
		configs: map[string]models.DeviceConfig{
			"m1": {Output: "hostname leaf1\n", Timestamp: "t1"},
			"m2": {Output: "hostname leaf2\n", Timestamp: "t2"},
			"m3": {Output: "hostname spine1\n", Timestamp: "t3"},
		},
	}
}

func newRunner(t *testing.T, src Source, out *bytes.Buffer, level logging.Level) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	return &Runner{
		Source: src,
		Writer: &configfile.Writer{Dir: dir},
		Log:    logging.New(out, level),
	}, dir
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_All(t *testing.T) {
	src := newFake()
	var out bytes.Buffer
	r, dir := newRunner(t, src, &out, logging.LevelQuiet)

	written, err := r.Run(context.Background(), "ALL")
	require.NoError(t, err)
	require.Len(t, written, 3)
	require.Equal(t, []string{"m1", "m2", "m3"}, src.calls)
	require.ElementsMatch(t, []string{"leaf1-t1.cvpcfg", "leaf2-t2.cvpcfg", "spine1-t3.cvpcfg"}, listDir(t, dir))

	require.Equal(t,
		"CVP-GETCONFIG: Device config leaf1 retrieved\n"+
			"CVP-GETCONFIG: Device config leaf2 retrieved\n"+
			"CVP-GETCONFIG: Device config spine1 retrieved\n",
		out.String())
}

func TestRun_NoMatch(t *testing.T) {
	src := newFake()
	var out bytes.Buffer
	r, dir := newRunner(t, src, &out, logging.LevelQuiet)

	written, err := r.Run(context.Background(), "border1")
	require.NoError(t, err)
	require.Empty(t, written)
	require.Empty(t, src.calls)
	require.Empty(t, listDir(t, dir))
	require.Empty(t, out.String())
}

func TestRun_DuplicateTargetsWriteTwice(t *testing.T) {
	src := newFake()
	var out bytes.Buffer
	r, _ := newRunner(t, src, &out, logging.LevelQuiet)

	written, err := r.Run(context.Background(), "LEAF1,10.0.0.11")
	require.NoError(t, err)
	require.Equal(t, []string{"m1", "m1"}, src.calls)
	require.Len(t, written, 2)
	require.Equal(t, written[0], written[1])
}

func TestRun_InventoryFailure(t *testing.T) {
	src := newFake()
	src.devicesErr = &client.StatusError{Host: "cvp", Endpoint: client.DevicesPath, StatusCode: http.StatusUnauthorized}
	var out bytes.Buffer
	r, dir := newRunner(t, src, &out, logging.LevelQuiet)

	_, err := r.Run(context.Background(), "ALL")
	require.True(t, client.IsAuthError(err))
	require.Empty(t, src.calls)
	require.Empty(t, listDir(t, dir))
}

func TestRun_MidLoopFailureKeepsEarlierFiles(t *testing.T) {
	src := newFake()
	src.failOn = "m2"
	var out bytes.Buffer
	r, dir := newRunner(t, src, &out, logging.LevelQuiet)

	written, err := r.Run(context.Background(), "ALL")

	var se *client.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "m2", se.DeviceID)
	require.Equal(t, []string{"m1", "m2"}, src.calls)
	require.Len(t, written, 1)
	require.Equal(t, []string{"leaf1-t1.cvpcfg"}, listDir(t, dir))
}

func TestRun_VerboseDiagnostics(t *testing.T) {
	src := newFake()
	var out bytes.Buffer
	r, _ := newRunner(t, src, &out, logging.LevelDebug)

	_, err := r.Run(context.Background(), "spine1")
	require.NoError(t, err)
	require.Contains(t, out.String(), "CVP-GETCONFIG: 3 provisioned devices")
	require.Contains(t, out.String(), "CVP-GETCONFIG: device leaf1 ip=10.0.0.11 mac=m1")
	require.Contains(t, out.String(), "CVP-GETCONFIG: matched hostnames [spine1]")
	require.Contains(t, out.String(), "CVP-GETCONFIG: Device config spine1 retrieved")
}

// TestRun_AgainstCVP drives the real client against a fake CVP server.
func TestRun_AgainstCVP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(client.LoginPath, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: client.SessionCookie, Value: "tok"})
	})
	mux.HandleFunc(client.DevicesPath, func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(client.SessionCookie); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"hostname":"leaf1","ipAddress":"10.0.0.11","systemMacAddress":"50:00:00:d5:5d:c0"}]`))
	})
	mux.HandleFunc(client.DeviceConfigPath, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "50:00:00:d5:5d:c0", r.URL.Query().Get("netElementId"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":"hostname x\n","deviceConfigTimeStamp":"2024-01-01T00:00:00"}`))
	})
	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	api := client.New(client.ClientConfig{
		Host:               strings.TrimPrefix(srv.URL, "https://"),
		Username:           "cvpadmin",
		Password:           "secret",
		InsecureSkipVerify: true,
	})
	_, err := api.Login(context.Background())
	require.NoError(t, err)

	var out bytes.Buffer
	r, dir := newRunner(t, api, &out, logging.LevelQuiet)

	written, err := r.Run(context.Background(), "ALL")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "leaf1-2024-01-01T00:00:00.cvpcfg")}, written)

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	require.Equal(t, "hostname x\n", string(data))
}
