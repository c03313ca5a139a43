// Package sitectl implements the site maintenance command line.
package sitectl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	entrypoint "github.com/s2design/site/internal/platform/cmd"
	"github.com/s2design/site/internal/platform/i18n/catalog"
	"github.com/s2design/site/internal/services/site/platform/session"
	"github.com/s2design/site/internal/services/site/sitecontent"
	"github.com/s2design/site/internal/services/site/storage"
	"github.com/s2design/site/internal/services/site/storage/cachestore"
	"github.com/spf13/cobra"
)

// CacheConfig locates the cache the site server writes to. Values come from
// the same environment as the server and can be overridden by flags.
type CacheConfig struct {
	Backend       string `env:"S2_SITE_CACHE_BACKEND" envDefault:"sqlite"`
	Path          string `env:"S2_SITE_CACHE_PATH" envDefault:"data/site-cache.db"`
	RedisAddr     string `env:"S2_SITE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"S2_SITE_REDIS_PASSWORD"`
	RedisDB       int    `env:"S2_SITE_REDIS_DB" envDefault:"0"`
}

// OpenStoreFunc opens a cache store.
type OpenStoreFunc func(context.Context, cachestore.Options) (storage.Store, error)

type expirer interface {
	DeleteExpired(context.Context) (int64, error)
}

// NewRootCommand builds the sitectl command tree. A nil open uses the real
// cache backends.
func NewRootCommand(open OpenStoreFunc) (*cobra.Command, error) {
	if open == nil {
		open = cachestore.Open
	}
	var cfg CacheConfig
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:           "sitectl",
		Short:         "Maintenance tasks for the S2 Design site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCacheCommand(&cfg, open), newContentCommand(), newTokenCommand(), newCatalogCommand())
	return root, nil
}

func newCacheCommand(cfg *CacheConfig, open OpenStoreFunc) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the read cache",
	}
	flags := cacheCmd.PersistentFlags()
	flags.StringVar(&cfg.Backend, "backend", cfg.Backend, "Cache backend: sqlite, redis or memory")
	flags.StringVar(&cfg.Path, "path", cfg.Path, "SQLite cache database path")
	flags.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address")
	flags.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database number")

	withStore := func(cmd *cobra.Command, run func(context.Context, storage.Store) error) error {
		store, err := open(cmd.Context(), cachestore.Options{
			Backend:       cfg.Backend,
			Path:          cfg.Path,
			RedisAddr:     cfg.RedisAddr,
			RedisPassword: cfg.RedisPassword,
			RedisDB:       cfg.RedisDB,
		})
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("caching is disabled for this backend")
		}
		defer store.Close()
		return run(cmd.Context(), store)
	}

	var scope string
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Drop cached API responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope = strings.TrimSpace(scope)
			if scope != "" && !slices.Contains(storage.Scopes(), scope) {
				return fmt.Errorf("unknown scope %q (want one of %s)", scope, strings.Join(storage.Scopes(), ", "))
			}
			return withStore(cmd, func(ctx context.Context, store storage.Store) error {
				if scope == "" {
					if err := store.Purge(ctx); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "purged all cache entries")
					return nil
				}
				if err := store.DeleteScope(ctx, scope); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %s cache entries\n", scope)
				return nil
			})
		},
	}
	purgeCmd.Flags().StringVar(&scope, "scope", "", "Only purge one scope: "+strings.Join(storage.Scopes(), ", "))

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete expired entries from the SQLite cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, store storage.Store) error {
				pruner, ok := store.(expirer)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "backend expires entries on its own")
					return nil
				}
				n, err := pruner.DeleteExpired(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired entries\n", n)
				return nil
			})
		},
	}

	cacheCmd.AddCommand(purgeCmd, pruneCmd)
	return cacheCmd
}

func newContentCommand() *cobra.Command {
	contentCmd := &cobra.Command{
		Use:   "content",
		Short: "Work with site copy files",
	}
	contentCmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Validate a site copy override file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := sitecontent.ParseFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%s, %d services, %d contact methods)\n",
				args[0], content.Brand.Name, len(content.Services.Items), len(content.Contact.Methods))
			return nil
		},
	})
	return contentCmd
}

func newTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Debug API and session tokens",
	}
	tokenCmd.AddCommand(&cobra.Command{
		Use:   "inspect <jwt>",
		Short: "Decode a JWT without verifying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectToken(cmd.OutOrStdout(), args[0], time.Now())
		},
	})
	return tokenCmd
}

func inspectToken(out io.Writer, raw string, now time.Time) error {
	claims, alg, err := session.Inspect(raw)
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(claims, "", "  ")
	if err != nil {
		return fmt.Errorf("encode claims: %w", err)
	}
	fmt.Fprintf(out, "alg: %s\n%s\n", alg, body)
	if exp, ok := session.BackendTokenExpiry(raw); ok {
		state := "valid"
		if !exp.After(now) {
			state = "expired"
		}
		fmt.Fprintf(out, "expires: %s (%s)\n", exp.UTC().Format(time.RFC3339), state)
	}
	return nil
}

func newCatalogCommand() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Check message catalogs",
	}
	catalogCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "List keys missing from each translation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return checkCatalog(cmd.OutOrStdout(), catalog.Default())
		},
	})
	return catalogCmd
}

func checkCatalog(out io.Writer, bundle *catalog.Bundle) error {
	var incomplete []string
	for _, locale := range bundle.Locales() {
		if locale == catalog.BaseLocale {
			continue
		}
		missing := bundle.MissingKeys(locale)
		if len(missing) == 0 {
			fmt.Fprintf(out, "%s: complete\n", locale)
			continue
		}
		incomplete = append(incomplete, locale)
		fmt.Fprintf(out, "%s: %d missing\n", locale, len(missing))
		for _, key := range missing {
			fmt.Fprintf(out, "  %s\n", key)
		}
	}
	if len(incomplete) > 0 {
		return fmt.Errorf("incomplete translations: %s", strings.Join(incomplete, ", "))
	}
	return nil
}
