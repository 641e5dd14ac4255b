package database

import (
	"context"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

type Options struct {
	User     string
	Addr     string
	Password string
	Database string
}

func PostgreSQLConnection(o Options) *pg.DB {
	return pg.Connect(&pg.Options{
		User:     o.User,
		Addr:     o.Addr,
		Password: o.Password,
		Database: o.Database,
	})
}

// CreateSchema creates the tables the repository needs if they are missing.
func CreateSchema(ctx context.Context, db *pg.DB) error {
	for _, model := range []interface{}{(*roomRecord)(nil), (*transactionRecord)(nil)} {
		err := db.ModelContext(ctx, model).CreateTable(&orm.CreateTableOptions{IfNotExists: true})
		if err != nil {
			return err
		}
	}
	return nil
}
