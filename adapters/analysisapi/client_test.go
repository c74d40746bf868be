package analysisapi

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
	"solarweb/internal/errors"
	"solarweb/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second, nil)
}

func TestHello(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"Hello Api!"}`)
	})
	mux.HandleFunc("/solar/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"Hello Solar"}`)
	})
	c := newTestClient(t, mux)

	msg, err := c.Hello(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello Api!", msg)

	msg, err = c.HelloSolar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello Solar", msg)
}

func TestPostEnergyFile(t *testing.T) {
	var gotName, gotBody string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/energy/time-slots", r.URL.Path)

		f, hdr, err := r.FormFile("consumption_file")
		if !assert.NoError(t, err) {
			return
		}
		data, _ := io.ReadAll(f)
		gotName, gotBody = hdr.Filename, string(data)

		io.WriteString(w, `{"analysisId":"a1b2"}`)
	}))

	id, err := c.PostEnergyFile(context.Background(), ports.Upload{
		Filename: "consumo.csv",
		Body:     strings.NewReader("fecha;kwh\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, core.AnalysisID("a1b2"), id)
	assert.Equal(t, "consumo.csv", gotName)
	assert.Equal(t, "fecha;kwh\n", gotBody)
}

func TestPostEnergyFileMissingID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		io.WriteString(w, `{"detail":"ok"}`)
	}))

	_, err := c.PostEnergyFile(context.Background(), ports.Upload{Filename: "x.csv", Body: strings.NewReader("a")})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

func TestEnergyByTimeSlot(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/energy/time-slots/abc%20def", r.URL.EscapedPath())
		io.WriteString(w, "slot;p1;p2\njan;1,5;2,5\n")
	}))

	data, err := c.EnergyByTimeSlot(context.Background(), "abc def")
	require.NoError(t, err)
	assert.Equal(t, "slot;p1;p2\njan;1,5;2,5\n", data)
}

func TestListTimeSlotResults(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[
			{"analysisId":"one","created_at":"1700000000","name":null,"holder":null,"analysis_time_slots":true},
			{"analysisId":"two","created_at":1700003600.5,"name":"casa","holder":"ana","analysis_time_slots":false},
			{"analysisId":"three","created_at":"unknown"}
		]}`)
	}))

	summaries, err := c.ListTimeSlotResults(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, core.AnalysisID("one"), summaries[0].ID)
	assert.Equal(t, analysis.KindEnergy, summaries[0].Kind)
	assert.Equal(t, int64(1700000000), summaries[0].CreatedAt.Time().Unix())
	assert.True(t, summaries[0].TimeSlots)
	assert.Equal(t, "", summaries[0].Name)

	assert.Equal(t, "casa", summaries[1].Name)
	assert.Equal(t, "ana", summaries[1].Holder)
	assert.True(t, summaries[2].CreatedAt.IsZero())
}

func TestListRejectsUnexpectedShape(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":{"analysisId":"one"}}`)
	}))

	_, err := c.ListSolarAnalyses(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

func TestDeleteAnalysis(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/energy/time-slots/one", r.URL.Path)
		io.WriteString(w, `{"message":"Analysis deleted"}`)
	}))

	msg, err := c.DeleteAnalysis(context.Background(), "one")
	require.NoError(t, err)
	assert.Equal(t, "Analysis deleted", msg)
}

func TestStatusMapping(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/energy/time-slots/missing":
			http.Error(w, `{"detail":"Not found"}`, http.StatusNotFound)
		default:
			http.Error(w, strings.Repeat("x", 1000), http.StatusInternalServerError)
		}
	}))

	_, err := c.EnergyByTimeSlot(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = c.EnergyByTimeSlot(context.Background(), "broken")
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
	assert.Equal(t, http.StatusBadGateway, errors.HTTPStatus(err))
	assert.Less(t, len(err.Error()), 400)
}

func TestUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, nil)
	_, err := c.Hello(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

func TestPostSolarForm(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/solar/process-file", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Madrid", r.FormValue("location"))
		assert.Equal(t, "5", r.FormValue("peakpower"))
		assert.Equal(t, "building", r.FormValue("mountingplace"))
		assert.Equal(t, "14.5", r.FormValue("loss"))
		assert.Equal(t, "30", r.FormValue("angle"))
		assert.Equal(t, "-10", r.FormValue("aspect"))
		_, _, err := r.FormFile("consumption_file")
		assert.NoError(t, err)
		io.WriteString(w, `{"analysisId":"sol-1"}`)
	}))

	params := analysis.SolarParameters{
		Location: "Madrid", PeakPower: 5, MountingPlace: "building",
		Loss: 14.5, Angle: 30, Aspect: -10,
	}
	id, err := c.PostSolarForm(context.Background(), ports.Upload{Filename: "c.csv", Body: strings.NewReader("x")}, params)
	require.NoError(t, err)
	assert.Equal(t, core.AnalysisID("sol-1"), id)
}

func TestPostSolarFormValidatesBeforeSending(t *testing.T) {
	called := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := c.PostSolarForm(context.Background(), ports.Upload{Body: strings.NewReader("")}, analysis.SolarParameters{})
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
	assert.False(t, called)
}

func TestSolarResults(t *testing.T) {
	png := []byte("\x89PNG fake")
	archive := buildZip(t, map[string][]byte{
		"image0.png": []byte("m0"),
		"image1.jpg": []byte("m1"),
		"notes.txt":  []byte("skip"),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/solar/monthly_consumption_production_plot/s1", func(w http.ResponseWriter, r *http.Request) {
		w.Write(png)
	})
	mux.HandleFunc("/solar/results_monthly_plots/s1", func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	})
	mux.HandleFunc("/solar/self_percent_ratios/s1", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"monthly_ratios":[0.25,0.5,0.75],"average":0.5}`)
	})
	mux.HandleFunc("/solar/monthly_production/s1", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "month;kwh\n1;10.5\n")
	})
	mux.HandleFunc("/solar/monthly_consumption/s1", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "month;kwh\n1;12.5\n")
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	plot, err := c.SolarConsumptionProductionPlot(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(png), plot.DataURI)

	plots, err := c.SolarMonthlyPlots(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, plots, 2)
	assert.Equal(t, "image0.png", plots[0].Name)
	assert.Equal(t, "image/jpeg", plots[1].MediaType)

	ratios, err := c.SolarSelfPercentRatios(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5, 0.75}, ratios.MonthlyRatios)
	assert.InDelta(t, 0.5, ratios.Average, 1e-9)

	production, err := c.SolarMonthlyProduction(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "month;kwh\n1;10.5\n", production)

	consumption, err := c.SolarMonthlyConsumption(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "month;kwh\n1;12.5\n", consumption)
}

func TestSolarMonthlyPlotsBadArchive(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not a zip")
	}))

	_, err := c.SolarMonthlyPlots(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, errors.CodeExternalService, errors.GetCode(err))
}

// buildZip writes entries in sorted name order so archive order is stable
func buildZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range sortedKeys(entries) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(entries[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
