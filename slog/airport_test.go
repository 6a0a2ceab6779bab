package slog_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/liveatc"
	"github.com/fwojciec/liveatc/mock"
	atcslog "github.com/fwojciec/liveatc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingAirportFinder(t *testing.T) {
	t.Parallel()

	t.Run("logs the lookup with its channel count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.AirportFinder{
			FindAirportFn: func(_ context.Context, icao string) (*liveatc.Airport, error) {
				return &liveatc.Airport{ICAO: icao, AudioChannels: make([]liveatc.AudioChannel, 3)}, nil
			},
		}

		finder := atcslog.NewLoggingAirportFinder(inner, debugLogger(&buf))
		airport, err := finder.FindAirport(context.Background(), "KBOS")

		require.NoError(t, err)
		assert.Equal(t, "KBOS", airport.ICAO)
		output := buf.String()
		assert.Contains(t, output, "msg=\"find airport\"")
		assert.Contains(t, output, "icao=KBOS")
		assert.Contains(t, output, "channels=3")
	})

	t.Run("logs a failed lookup", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.AirportFinder{
			FindAirportFn: func(_ context.Context, icao string) (*liveatc.Airport, error) {
				return nil, liveatc.Errorf(liveatc.ENOTFOUND, "no airport found for %s", icao)
			},
		}

		finder := atcslog.NewLoggingAirportFinder(inner, debugLogger(&buf))
		_, err := finder.FindAirport(context.Background(), "ZZZZ")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "channels=0")
		assert.Contains(t, output, "no airport found for ZZZZ")
	})

	t.Run("logs whether a stream was found", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.AirportFinder{
			ResolveStreamURLFn: func(_ context.Context, _ string) (string, bool) {
				return "https://d.liveatc.net/kbos_twr", true
			},
		}

		finder := atcslog.NewLoggingAirportFinder(inner, debugLogger(&buf))
		src, ok := finder.ResolveStreamURL(context.Background(), "https://www.liveatc.net/hlisten.php")

		assert.True(t, ok)
		assert.Equal(t, "https://d.liveatc.net/kbos_twr", src)
		assert.Contains(t, buf.String(), "found=true")
	})
}

func TestLoggingAirportService(t *testing.T) {
	t.Parallel()

	t.Run("delegates every call and logs it", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var calls []string
		inner := &mock.AirportService{
			UpsertAirportFn: func(_ context.Context, _ *liveatc.Airport) error {
				calls = append(calls, "upsert")
				return nil
			},
			FindAirportByICAOFn: func(_ context.Context, icao string) (*liveatc.Airport, error) {
				calls = append(calls, "find")
				return &liveatc.Airport{ICAO: icao}, nil
			},
			FindAirportsFn: func(_ context.Context, _ liveatc.AirportFilter) ([]*liveatc.Airport, error) {
				calls = append(calls, "list")
				return []*liveatc.Airport{{ICAO: "KBOS"}, {ICAO: "KJFK"}}, nil
			},
			DeleteAirportFn: func(_ context.Context, _ string) error {
				calls = append(calls, "delete")
				return nil
			},
		}

		svc := atcslog.NewLoggingAirportService(inner, debugLogger(&buf))
		ctx := context.Background()

		require.NoError(t, svc.UpsertAirport(ctx, &liveatc.Airport{ICAO: "KBOS"}))
		_, err := svc.FindAirportByICAO(ctx, "KBOS")
		require.NoError(t, err)
		airports, err := svc.FindAirports(ctx, liveatc.AirportFilter{Limit: 10})
		require.NoError(t, err)
		require.NoError(t, svc.DeleteAirport(ctx, "KBOS"))

		assert.Len(t, airports, 2)
		assert.Equal(t, []string{"upsert", "find", "list", "delete"}, calls)
		output := buf.String()
		assert.Contains(t, output, "msg=\"upsert airport\"")
		assert.Contains(t, output, "msg=\"find stored airport\"")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "msg=\"delete airport\"")
	})
}
