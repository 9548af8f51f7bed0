package main

import (
	"io/fs"

	"whlp/db"
)

// migrationSource returns the filesystem and directory goose reads from.
// A nil filesystem means the OS one.
func migrationSource(dir string) (fs.FS, string) {
	if dir == "" {
		return db.Migrations, db.MigrationsDir
	}
	return nil, dir
}

// createDir is where new migration files are written; the embedded set
// cannot be written to, so it defaults to the checkout location.
func createDir(dir string) string {
	if dir == "" {
		return "db/migrations"
	}
	return dir
}
