// Package history keeps a sqlite log of every performance.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/leandrodaf/motorsong/sdk/contracts"
	_ "github.com/mattn/go-sqlite3"
)

// Error definitions for the run store.
var (
	ErrOpen   = errors.New("error opening history database")
	ErrRecord = errors.New("error recording run")
	ErrQuery  = errors.New("error querying runs")
)

const schema = `
	create table if not exists runs
	  (
		  id integer not null primary key,
		  song text not null,
		  backend text not null,
		  ticks integer not null,
		  played_us integer not null,
		  started_ns integer not null,
		  wall_us integer not null,
		  exit_note integer not null,
		  err text not null
	  );
	create index if not exists runs_song on runs(song);
`

// Store is a contracts.Recorder backed by sqlite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	// An in-memory database lives and dies with its connection.
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one run.
func (s *Store) Record(run contracts.Run) error {
	_, err := s.db.Exec(
		"insert into runs(song, backend, ticks, played_us, started_ns, wall_us, exit_note, err) values(?, ?, ?, ?, ?, ?, ?, ?)",
		run.Song, run.Backend, int64(run.Ticks), run.Played.Microseconds(), run.Started.UnixNano(),
		run.Wall.Microseconds(), int64(run.ExitNote), run.Err,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRecord, err)
	}
	return nil
}

// Runs returns the most recent runs first, at most limit of them. An empty song returns
// runs of every song; limit <= 0 returns all.
func (s *Store) Runs(song string, limit int) ([]contracts.Run, error) {
	query := "select song, backend, ticks, played_us, started_ns, wall_us, exit_note, err from runs"
	var args []any
	if song != "" {
		query += " where song = ?"
		args = append(args, song)
	}
	query += " order by id desc"
	if limit > 0 {
		query += " limit ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer rows.Close()

	runs := []contracts.Run{}
	for rows.Next() {
		var (
			run                    contracts.Run
			ticks, played, started int64
			wall, exitNote         int64
		)
		if err := rows.Scan(&run.Song, &run.Backend, &ticks, &played, &started, &wall, &exitNote, &run.Err); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQuery, err)
		}
		run.Ticks = uint64(ticks)
		run.Played = time.Duration(played) * time.Microsecond
		run.Started = time.Unix(0, started)
		run.Wall = time.Duration(wall) * time.Microsecond
		run.ExitNote = uint32(exitNote)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	return runs, nil
}
