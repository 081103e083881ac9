package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/datasprout/pkg/cache"
	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/pipeline"
	"github.com/matzehuels/datasprout/pkg/server"
	"github.com/matzehuels/datasprout/pkg/store"
)

// Environment variables read by the serve command.
const (
	envRedisAddr = "DATASPROUT_REDIS_ADDR"
	envMongoURI  = "DATASPROUT_MONGO_URI"
)

// serveFlags holds flags for the serve command.
type serveFlags struct {
	port      int
	graphs    map[string]string
	graphsDir string
	redisAddr string
	keyPrefix string
	mongoURI  string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	flags := serveFlags{
		port:      server.DefaultPort,
		redisAddr: os.Getenv(envRedisAddr),
		mongoURI:  os.Getenv(envMongoURI),
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dataset generation over HTTP",
		Long: `Start the HTTP server. Knowledge graphs are registered by name with --graph
or by scanning --graphs-dir for Turtle and N-Triples files.

Archives are cached in Redis when --redis-addr is set (or ` + envRedisAddr + `),
otherwise in the local cache directory. Runs are recorded in MongoDB when
--mongo-uri is set (or ` + envMongoURI + `), otherwise in the local run store.`,
		Example: `  datasprout serve --graph GL=dataset/gl.ttl --graph BSBM=dataset/bsbm.ttl
  datasprout serve --graphs-dir dataset --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	f := cmd.Flags()
	f.IntVar(&flags.port, "port", flags.port, "port to listen on")
	f.StringToStringVar(&flags.graphs, "graph", nil, "register a graph as name=path (repeatable)")
	f.StringVar(&flags.graphsDir, "graphs-dir", "", "register every graph file in this folder")
	f.StringVar(&flags.redisAddr, "redis-addr", flags.redisAddr, "Redis address for the archive cache")
	f.StringVar(&flags.keyPrefix, "key-prefix", "datasprout:", "prefix of cache keys in a shared Redis")
	f.StringVar(&flags.mongoURI, "mongo-uri", flags.mongoURI, "MongoDB URI for the run store")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	graphs, err := registerGraphs(flags.graphs, flags.graphsDir)
	if err != nil {
		return err
	}
	if len(graphs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no knowledge graph registered, use --graph or --graphs-dir")
	}

	runner, err := c.newServerRunner(ctx, flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, graphs, c.Logger)
	for _, n := range srv.GraphNames() {
		c.Logger.Info("registered graph", "name", n, "path", graphs[n])
	}
	return srv.ListenAndServe(ctx, server.Addr(flags.port))
}

func (c *CLI) newServerRunner(ctx context.Context, flags serveFlags) (*pipeline.Runner, error) {
	var (
		ch    cache.Cache
		keyer cache.Keyer
		err   error
	)
	if flags.redisAddr != "" {
		if ch, err = cache.NewRedisCache(ctx, flags.redisAddr); err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", flags.redisAddr)
		}
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), flags.keyPrefix)
		c.Logger.Info("using redis cache", "addr", flags.redisAddr, "prefix", flags.keyPrefix)
	} else if ch, err = newCache(false); err != nil {
		return nil, err
	}

	var st store.Store
	if flags.mongoURI != "" {
		if st, err = store.NewMongoStore(ctx, flags.mongoURI); err != nil {
			_ = ch.Close()
			return nil, err
		}
		c.Logger.Info("using mongodb run store")
	} else if st, err = store.NewFileStore(""); err != nil {
		_ = ch.Close()
		return nil, err
	}

	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.Store = st
	return r, nil
}

// graphExtensions are the file suffixes registered from a graphs folder.
var graphExtensions = []string{".ttl", ".nt", ".ttl.gz", ".nt.gz"}

// registerGraphs merges explicit name=path pairs with the graph files of
// dir, named by their file name without extensions. Explicit pairs win.
func registerGraphs(explicit map[string]string, dir string) (map[string]string, error) {
	graphs := make(map[string]string)
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", dir)
		}
		for _, e := range entries {
			if e.IsDir() || !hasGraphExtension(e.Name()) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			graphs[datasetName(path, "")] = path
		}
	}
	for name, path := range explicit {
		if err := errors.ValidateDatasetName(name); err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph %s", name)
		}
		graphs[name] = path
	}
	return graphs, nil
}

func hasGraphExtension(name string) bool {
	for _, ext := range graphExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
