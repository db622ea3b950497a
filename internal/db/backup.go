package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ErrNotPortfolio is returned by Restore when the source file is a SQLite
// database without the documents table.
var ErrNotPortfolio = errors.New("not a portfolio database")

// Backup writes a consistent copy of the open database to dest. The
// destination must not exist.
func Backup(ctx context.Context, d *DB, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup %s: %w", dest, os.ErrExist)
	}
	if _, err := d.Exec(ctx, `VACUUM INTO ?`, dest); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dest, err)
	}
	d.logger.Info("database backed up", slog.String("dest", dest))
	return nil
}

// Restore replaces the database file at dst with src after checking that src
// opens and carries the documents table. The server must not be running.
func Restore(ctx context.Context, src, dst string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("restore source: %w", err)
	}

	check, err := New(ctx, src, logger)
	if err != nil {
		return fmt.Errorf("open restore source: %w", err)
	}
	var name string
	err = check.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name='documents'`).Scan(&name)
	check.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", src, ErrNotPortfolio)
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("restore %s: %w", dst, err)
	}
	logger.Info("database restored", slog.String("src", src), slog.String("dst", dst))
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".restore"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
