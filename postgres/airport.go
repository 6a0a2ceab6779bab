package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/liveatc"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ liveatc.AirportService = (*AirportService)(nil)

// AirportService implements liveatc.AirportService using PostgreSQL.
type AirportService struct {
	db *DB
}

// NewAirportService creates a new AirportService.
func NewAirportService(db *DB) *AirportService {
	return &AirportService{db: db}
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

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var prevHash string
	err = tx.QueryRow(ctx, `SELECT channels_hash FROM airports WHERE icao = $1 FOR UPDATE`, airport.ICAO).Scan(&prevHash)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var updatedAt time.Time
	err = tx.QueryRow(ctx, `INSERT INTO airports (icao, name, iata, city, state_province, country, continent, metar, channels_hash, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
        ON CONFLICT (icao) DO UPDATE SET
            name = EXCLUDED.name,
            iata = EXCLUDED.iata,
            city = EXCLUDED.city,
            state_province = EXCLUDED.state_province,
            country = EXCLUDED.country,
            continent = EXCLUDED.continent,
            metar = EXCLUDED.metar,
            channels_hash = EXCLUDED.channels_hash,
            updated_at = EXCLUDED.updated_at
        RETURNING updated_at`,
		airport.ICAO, airport.Name, airport.IATA, airport.City, airport.StateProvince,
		airport.Country, airport.Continent, airport.METAR, hash).Scan(&updatedAt)
	if err != nil {
		return err
	}

	if hash != prevHash {
		if err := replaceChannels(ctx, tx, airport); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	airport.UpdatedAt = updatedAt.UTC()
	return nil
}

func replaceChannels(ctx context.Context, tx pgx.Tx, airport *liveatc.Airport) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM audio_channels WHERE airport_icao = $1`, airport.ICAO)
	for i, ch := range airport.AudioChannels {
		freqs := ch.Frequencies
		if freqs == nil {
			freqs = []liveatc.Frequency{}
		}
		b, err := json.Marshal(freqs)
		if err != nil {
			return fmt.Errorf("failed to encode frequencies: %w", err)
		}
		batch.Queue(`INSERT INTO audio_channels (id, airport_icao, position, name, feed_status, frequencies, mp3_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New().String(), airport.ICAO, i, ch.Name, ch.FeedStatus, string(b), ch.MP3URL)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return br.Close()
}

// FindAirportByICAO retrieves an airport with its channels in page order.
func (s *AirportService) FindAirportByICAO(ctx context.Context, icao string) (*liveatc.Airport, error) {
	row := s.db.pool.QueryRow(ctx, `SELECT icao, name, iata, city, state_province, country, continent, metar, updated_at
        FROM airports
        WHERE icao = $1`, icao)

	airport, err := scanAirport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, liveatc.Errorf(liveatc.ENOTFOUND, "airport %s not found", icao)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.pool.Query(ctx, `SELECT name, feed_status, frequencies, mp3_url
        FROM audio_channels
        WHERE airport_icao = $1
        ORDER BY position`, icao)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airport.AudioChannels = []liveatc.AudioChannel{}
	for rows.Next() {
		ch := liveatc.AudioChannel{AirportICAO: airport.ICAO}
		var freqs string
		if err := rows.Scan(&ch.Name, &ch.FeedStatus, &freqs, &ch.MP3URL); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(freqs), &ch.Frequencies); err != nil {
			return nil, fmt.Errorf("failed to decode frequencies: %w", err)
		}
		airport.AudioChannels = append(airport.AudioChannels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return airport, nil
}

// FindAirports retrieves airports matching the filter ordered by ICAO.
// Channels are not loaded.
func (s *AirportService) FindAirports(ctx context.Context, filter liveatc.AirportFilter) ([]*liveatc.Airport, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT icao, name, iata, city, state_province, country, continent, metar, updated_at FROM airports WHERE 1=1`)

	if filter.Country != nil {
		args = append(args, *filter.Country)
		fmt.Fprintf(&query, " AND country = $%d", len(args))
	}

	query.WriteString(" ORDER BY icao")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&query, " OFFSET $%d", len(args))
	}

	rows, err := s.db.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var airports []*liveatc.Airport
	for rows.Next() {
		airport, err := scanAirport(rows)
		if err != nil {
			return nil, err
		}
		airports = append(airports, airport)
	}

	return airports, rows.Err()
}

// DeleteAirport permanently removes an airport and its channels.
func (s *AirportService) DeleteAirport(ctx context.Context, icao string) error {
	tag, err := s.db.pool.Exec(ctx, `DELETE FROM airports WHERE icao = $1`, icao)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return liveatc.Errorf(liveatc.ENOTFOUND, "airport %s not found", icao)
	}
	return nil
}

func scanAirport(row pgx.Row) (*liveatc.Airport, error) {
	var airport liveatc.Airport
	if err := row.Scan(&airport.ICAO, &airport.Name, &airport.IATA, &airport.City, &airport.StateProvince,
		&airport.Country, &airport.Continent, &airport.METAR, &airport.UpdatedAt); err != nil {
		return nil, err
	}
	airport.UpdatedAt = airport.UpdatedAt.UTC()
	return &airport, nil
}
