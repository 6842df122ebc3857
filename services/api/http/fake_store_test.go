package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/harshraj001/AquaVision/services/api/config"
	"github.com/harshraj001/AquaVision/services/api/db"
	"github.com/harshraj001/AquaVision/services/api/export"
	"github.com/harshraj001/AquaVision/services/api/observability"
	"github.com/harshraj001/AquaVision/services/api/simulation"
)

// fakeStore is an in-memory Store.
type fakeStore struct {
	states  []db.State
	wells   []simulation.Well
	pingErr error
	err     error
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) ListStates(context.Context) ([]db.State, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]db.State, len(f.states))
	copy(out, f.states)
	return out, nil
}

func (f *fakeStore) GetState(_ context.Context, code string) (*db.State, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, st := range f.states {
		if st.StateCode == code {
			st := st
			return &st, nil
		}
	}
	return nil, fmt.Errorf("state %s: %w", code, db.ErrNotFound)
}

func (f *fakeStore) ListDistrictBlocks(_ context.Context, code string) ([]db.DistrictBlocks, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []db.DistrictBlocks
	index := map[string]int{}
	for _, w := range f.wells {
		if w.StateCode != code {
			continue
		}
		i, ok := index[w.District]
		if !ok {
			i = len(out)
			index[w.District] = i
			out = append(out, db.DistrictBlocks{District: w.District, Blocks: []string{}})
		}
		if w.Block != "" {
			out[i].Blocks = append(out[i].Blocks, w.Block)
		}
	}
	return out, nil
}

func (f *fakeStore) match(q db.WellQuery) []simulation.Well {
	out := make([]simulation.Well, 0)
	for _, w := range f.wells {
		if w.StateCode != q.StateCode {
			continue
		}
		if q.District != "" && w.District != q.District {
			continue
		}
		if q.Block != "" && w.Block != q.Block {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (f *fakeStore) ListWells(_ context.Context, q db.WellQuery) ([]simulation.Well, error) {
	if f.err != nil {
		return nil, f.err
	}
	wells := f.match(q)
	for i := range wells {
		wells[i].Readings = nil
	}
	return wells, nil
}

func (f *fakeStore) FindWells(_ context.Context, q db.WellQuery) ([]simulation.Well, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.match(q), nil
}

func (f *fakeStore) GetWell(_ context.Context, code, id string) (*simulation.Well, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, w := range f.wells {
		if w.StateCode == code && w.ID == id {
			w := w
			return &w, nil
		}
	}
	return nil, fmt.Errorf("well %s: %w", id, db.ErrNotFound)
}

func (f *fakeStore) ReadingDateRange(_ context.Context, code string) (db.DateRange, error) {
	if f.err != nil {
		return db.DateRange{}, f.err
	}
	var dr db.DateRange
	for _, w := range f.match(db.WellQuery{StateCode: code}) {
		dr.WellCount++
		for _, r := range w.Readings {
			d := r.Date
			if dr.Min == nil || d.Before(*dr.Min) {
				dr.Min = &d
			}
			if dr.Max == nil || d.After(*dr.Max) {
				dr.Max = &d
			}
		}
	}
	return dr, nil
}

// recordingMailer captures sent links.
type recordingMailer struct {
	links []export.Link
	err   error
}

func (m *recordingMailer) SendExportLink(_ context.Context, link export.Link) error {
	if m.err != nil {
		return m.err
	}
	m.links = append(m.links, link)
	return nil
}

func reading(date string, depth float64) simulation.Observation {
	d, err := simulation.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return simulation.Observation{Date: d, Depth: depth}
}

func punjabFixture() *fakeStore {
	return &fakeStore{
		states: []db.State{
			{
				StateCode: "IN-PB",
				Name:      "Punjab",
				MapCenter: simulation.Coordinates{Lat: 30.9, Lng: 75.85},
				ZoomLevel: 8,
				Geology:   &db.Geology{DominantSoil: "Alluvial", Description: "Indo-Gangetic alluvium"},
			},
			{StateCode: "IN-RJ", Name: "Rajasthan", MapCenter: simulation.Coordinates{Lat: 27, Lng: 74}, ZoomLevel: 7},
		},
		wells: []simulation.Well{
			{
				ID: "IN-PB-LUD-001", StateCode: "IN-PB", District: "Ludhiana", Block: "Khanna",
				Coordinates: simulation.Coordinates{Lat: 30.9, Lng: 75.8}, SoilProfile: []string{"Topsoil", "Alluvium"},
				CriticalDepth: 40,
				Readings: []simulation.Observation{
					reading("2023-06-01", 20),
					reading("2023-11-01", 40),
				},
			},
			{
				ID: "IN-PB-LUD-002", StateCode: "IN-PB", District: "Ludhiana", Block: "Samrala",
				Coordinates: simulation.Coordinates{Lat: 30.8, Lng: 76.1}, SoilProfile: []string{"Topsoil"},
				CriticalDepth: 40,
				Readings: []simulation.Observation{
					reading("2023-06-01", 45),
				},
			},
			{
				ID: "IN-PB-AMR-001", StateCode: "IN-PB", District: "Amritsar",
				Coordinates: simulation.Coordinates{Lat: 31.6, Lng: 74.9}, SoilProfile: []string{"Topsoil"},
				CriticalDepth: 40,
			},
		},
	}
}

type testServer struct {
	*Server
	fake      *fakeStore
	sent      *recordingMailer
	fakeClock *clockwork.FakeClock
	registry  *observability.Metrics
}

func newTestServer(t *testing.T, store *fakeStore, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := config.Config{
		Port:                5000,
		BaseURL:             "http://aquavision.test",
		MaxSeriesDays:       1096,
		ExportTTL:           24 * time.Hour,
		ExportSweepSchedule: "@every 15m",
		ExportRatePerMinute: 5,
	}
	for _, m := range mutate {
		m(&cfg)
	}

	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	mailer := &recordingMailer{}
	metrics := observability.NewMetricsForTesting()

	srv := New(cfg, Dependencies{
		Store:   store,
		Mailer:  mailer,
		Metrics: metrics,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:   clock,
		Exports: export.NewTokenStore(cfg.ExportTTL, clock),
	})
	return &testServer{Server: srv, fake: store, sent: mailer, fakeClock: clock, registry: metrics}
}

func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.Engine().ServeHTTP(w, req)
	return w
}

func (ts *testServer) get(target string) *httptest.ResponseRecorder {
	return ts.do(http.MethodGet, target, "")
}
