package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	_ "modernc.org/sqlite"

	"github.com/padraicbc/golfpickem/config"
	"github.com/padraicbc/golfpickem/models"
)

// Setup opens the configured database. PostgreSQL is the default; DB_DRIVER=sqlite
// runs against a local file instead.
func Setup(cfg *config.Config) *bun.DB {
	var db *bun.DB
	switch cfg.DBDriver {
	case "sqlite":
		var err error
		db, err = OpenSQLite(fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.SQLitePath))
		if err != nil {
			log.Fatal("failed to open sqlite database:", err)
		}
	default:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
		db = bun.NewDB(sqldb, pgdialect.New())
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// OpenSQLite opens a SQLite database through the pure Go driver. A single
// connection is used so in-memory databases survive between queries and
// writes are serialized.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		model       interface{}
		foreignKeys []string
	}{
		{model: (*models.User)(nil)},
		{model: (*models.Season)(nil)},
		{
			model: (*models.Tournament)(nil),
			foreignKeys: []string{
				`("season_id") REFERENCES "seasons" ("id") ON DELETE CASCADE`,
			},
		},
		{model: (*models.Player)(nil)},
		{
			model: (*models.TournamentField)(nil),
			foreignKeys: []string{
				`("tournament_id") REFERENCES "tournaments" ("id") ON DELETE CASCADE`,
				`("player_id") REFERENCES "players" ("id") ON DELETE CASCADE`,
			},
		},
		{
			model: (*models.Result)(nil),
			foreignKeys: []string{
				`("tournament_id") REFERENCES "tournaments" ("id") ON DELETE CASCADE`,
				`("player_id") REFERENCES "players" ("id") ON DELETE CASCADE`,
			},
		},
		{
			model: (*models.Pick)(nil),
			foreignKeys: []string{
				`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
				`("tournament_id") REFERENCES "tournaments" ("id") ON DELETE CASCADE`,
			},
		},
		{
			model: (*models.UserSeasonStats)(nil),
			foreignKeys: []string{
				`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
				`("season_id") REFERENCES "seasons" ("id") ON DELETE CASCADE`,
			},
		},
	}

	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", t.model, err)
		}
	}

	indexes := []struct {
		model   interface{}
		name    string
		columns []string
	}{
		{(*models.Tournament)(nil), "tournaments_season_idx", []string{"season_id"}},
		{(*models.Pick)(nil), "picks_tournament_idx", []string{"tournament_id"}},
		{(*models.Result)(nil), "results_player_idx", []string{"player_id"}},
	}
	for _, idx := range indexes {
		if _, err := db.NewCreateIndex().Model(idx.model).Index(idx.name).IfNotExists().Column(idx.columns...).Exec(ctx); err != nil {
			log.Printf("index %s: %v", idx.name, err)
		}
	}

	return nil
}
