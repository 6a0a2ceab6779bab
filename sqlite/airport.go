package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/liveatc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ liveatc.AirportService = (*AirportService)(nil)

// AirportService implements liveatc.AirportService using SQLite.
type AirportService struct {
	db  *DB
	now func() time.Time
}

// NewAirportService creates a new AirportService.
func NewAirportService(db *DB) *AirportService {
	return &AirportService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// UpsertAirport creates or replaces an airport by ICAO. The stored channel
// set is replaced only when its content hash changed.
func (s *AirportService) UpsertAirport(ctx context.Context, airport *liveatc.Airport) error {
	if err := airport.Validate(); err != nil {
		return err
	}

	hash, err := airport.ChannelsHash()
	if err != nil {
		return fmt.Errorf("failed to hash channels: %w", err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var prevHash string
	err = tx.QueryRowContext(ctx, "SELECT channels_hash FROM airports WHERE icao = ?", airport.ICAO).Scan(&prevHash)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	updatedAt := s.now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO airports (icao, name, iata, city, state_province, country, continent, metar, channels_hash, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(icao) DO UPDATE SET
			name = excluded.name,
			iata = excluded.iata,
			city = excluded.city,
			state_province = excluded.state_province,
			country = excluded.country,
			continent = excluded.continent,
			metar = excluded.metar,
			channels_hash = excluded.channels_hash,
			updated_at = excluded.updated_at
	`, airport.ICAO, airport.Name, airport.IATA, airport.City, airport.StateProvince,
		airport.Country, airport.Continent, airport.METAR, hash, updatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	if hash != prevHash {
		if err := replaceChannels(ctx, tx, airport); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	airport.UpdatedAt = updatedAt.Truncate(time.Second)
	return nil
}

func replaceChannels(ctx context.Context, tx *sql.Tx, airport *liveatc.Airport) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM audio_channels WHERE airport_icao = ?", airport.ICAO); err != nil {
		return err
	}

	for i, ch := range airport.AudioChannels {
		freqs, err := json.Marshal(nonNil(ch.Frequencies))
		if err != nil {
			return fmt.Errorf("failed to encode frequencies: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO audio_channels (id, airport_icao, position, name, feed_status, frequencies, mp3_url)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), airport.ICAO, i, ch.Name, ch.FeedStatus, string(freqs), ch.MP3URL)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindAirportByICAO retrieves an airport with its channels in page order.
func (s *AirportService) FindAirportByICAO(ctx context.Context, icao string) (*liveatc.Airport, error) {
	var airport liveatc.Airport
	var updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT icao, name, iata, city, state_province, country, continent, metar, updated_at
		FROM airports
		WHERE icao = ?
	`, icao).Scan(&airport.ICAO, &airport.Name, &airport.IATA, &airport.City, &airport.StateProvince,
		&airport.Country, &airport.Continent, &airport.METAR, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, liveatc.Errorf(liveatc.ENOTFOUND, "airport %s not found", icao)
	}
	if err != nil {
		return nil, err
	}

	if airport.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	if airport.AudioChannels, err = s.findChannels(ctx, airport.ICAO); err != nil {
		return nil, err
	}

	return &airport, nil
}

func (s *AirportService) findChannels(ctx context.Context, icao string) ([]liveatc.AudioChannel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, feed_status, frequencies, mp3_url
		FROM audio_channels
		WHERE airport_icao = ?
		ORDER BY position
	`, icao)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	channels := []liveatc.AudioChannel{}
	for rows.Next() {
		ch := liveatc.AudioChannel{AirportICAO: icao}
		var freqs string
		if err := rows.Scan(&ch.Name, &ch.FeedStatus, &freqs, &ch.MP3URL); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(freqs), &ch.Frequencies); err != nil {
			return nil, fmt.Errorf("failed to decode frequencies: %w", err)
		}
		channels = append(channels, ch)
	}

	return channels, rows.Err()
}

// FindAirports retrieves airports matching the filter ordered by ICAO.
// Channels are not loaded.
func (s *AirportService) FindAirports(ctx context.Context, filter liveatc.AirportFilter) ([]*liveatc.Airport, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT icao, name, iata, city, state_province, country, continent, metar, updated_at FROM airports WHERE 1=1")

	if filter.Country != nil {
		query.WriteString(" AND country = ?")
		args = append(args, *filter.Country)
	}

	query.WriteString(" ORDER BY icao")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var airports []*liveatc.Airport
	for rows.Next() {
		var airport liveatc.Airport
		var updatedAt string

		if err := rows.Scan(&airport.ICAO, &airport.Name, &airport.IATA, &airport.City, &airport.StateProvince,
			&airport.Country, &airport.Continent, &airport.METAR, &updatedAt); err != nil {
			return nil, err
		}

		if airport.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		airports = append(airports, &airport)
	}

	return airports, rows.Err()
}

// DeleteAirport permanently removes an airport and its channels.
func (s *AirportService) DeleteAirport(ctx context.Context, icao string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM airports WHERE icao = ?", icao)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return liveatc.Errorf(liveatc.ENOTFOUND, "airport %s not found", icao)
	}

	return nil
}

func nonNil(freqs []liveatc.Frequency) []liveatc.Frequency {
	if freqs == nil {
		return []liveatc.Frequency{}
	}
	return freqs
}
