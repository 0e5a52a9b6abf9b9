package main

import (
	"fmt"
	"github.com/alecthomas/kong"
	"github.com/hauke96/sigolo/v2"
	"github.com/joho/godotenv"
	"os"
	"placetiles/common"
	"placetiles/feature"
	"placetiles/importing"
	"placetiles/index"
	ownIo "placetiles/io"
	"placetiles/web"
	"strings"
	"time"
)

const VERSION = "v0.1.0"

type InputArg struct {
	Input string `help:"The input file. Either a GeoNames dump (e.g. cities500.txt), .osm or .osm.pbf." placeholder:"<input-file>" arg:"" type:"existingfile"`
}

var cli struct {
	Logging       string      `help:"Logging verbosity." enum:"info,debug,trace" short:"l" default:"info" env:"PLACETILES_LOGGING"`
	Version       VersionFlag `help:"Print version information and quit" name:"version" short:"v"`
	PointsPerNode int         `help:"Maximum number of points stored in one node of the quadtree." default:"10" env:"PLACETILES_POINTS_PER_NODE"`
	Serve         struct {
		InputArg
		Port          string        `help:"The port this server should listen to." default:"48088" short:"p" env:"PLACETILES_PORT"`
		TlsCert       string        `help:"The certificate file for TLS connections. Requires --tls-key." placeholder:"<cert-file>" env:"PLACETILES_TLS_CERT"`
		TlsKey        string        `help:"The private key file for TLS connections. Requires --tls-cert." placeholder:"<key-file>" env:"PLACETILES_TLS_KEY"`
		PointsPerTile int           `help:"Maximum number of points returned per tile." default:"4" env:"PLACETILES_POINTS_PER_TILE"`
		Cache         string        `help:"Cache for rendered tiles." enum:"none,memory,redis" default:"memory" env:"PLACETILES_CACHE"`
		CacheSize     int           `help:"Maximum number of tiles in the memory cache." default:"10000" env:"PLACETILES_CACHE_SIZE"`
		RedisUrl      string        `help:"URL of the Redis server used by the redis cache." default:"redis://localhost:6379/0" env:"PLACETILES_REDIS_URL"`
		RedisTtl      time.Duration `help:"Expiration time of tiles in the redis cache, 0 means no expiration." default:"1h" env:"PLACETILES_REDIS_TTL"`
	} `cmd:"" help:"Starts the tile server for the given places file."`
	Stats struct {
		InputArg
	} `cmd:"" help:"Prints statistics of the quadtree built from the given places file."`
	Find struct {
		InputArg
		Name string `help:"The exact name of the place." arg:""`
	} `cmd:"" help:"Finds the most important place with the given name."`
	Box struct {
		InputArg
		MinLon    float64 `help:"Western edge in degrees. Use '--' before negative values." arg:""`
		MinLat    float64 `help:"Southern edge in degrees." arg:""`
		MaxLon    float64 `help:"Eastern edge in degrees." arg:""`
		MaxLat    float64 `help:"Northern edge in degrees." arg:""`
		MaxPoints int     `help:"Maximum number of returned points, 0 for no limit." default:"0"`
		Raw       bool    `help:"Returns all points within the box without declustering."`
	} `cmd:"" help:"Writes the places within the given box as GeoJSON to stdout."`
	Tile struct {
		InputArg
		Z         int    `help:"Zoom level." arg:""`
		X         int    `help:"Tile column." arg:""`
		Y         int    `help:"Tile row." arg:""`
		Scheme    string `help:"Tiling scheme of the tile address." enum:"flat,mercator" default:"flat"`
		MaxPoints int    `help:"Maximum number of returned points for flat tiles, 0 for no limit." default:"4"`
	} `cmd:"" help:"Writes the places of the given tile as GeoJSON to stdout."`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

func main() {
	// A missing .env file is fine, all settings have defaults.
	_ = godotenv.Load(".env")

	ctx := kong.Parse(
		&cli,
		kong.Name("placetiles"),
		kong.Description("Serves populated places as map tiles, preferring important places on low zoom levels."),
		kong.Vars{
			"version": VERSION,
		},
	)

	if strings.ToLower(cli.Logging) == "debug" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	} else if strings.ToLower(cli.Logging) == "trace" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	} else if strings.ToLower(cli.Logging) == "info" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
	} else {
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
		sigolo.Fatalf("Unknown logging level '%s'", cli.Logging)
	}

	switch ctx.Command() {
	case "serve <input>":
		tree, err := importing.Import(cli.Serve.Input, cli.PointsPerNode)
		sigolo.FatalCheck(err)

		cache, err := createTileCache()
		sigolo.FatalCheck(err)

		server := web.NewServer(tree, cli.Serve.PointsPerTile, cache)
		if cli.Serve.TlsCert != "" && cli.Serve.TlsKey != "" {
			err = web.StartServerTls(cli.Serve.Port, cli.Serve.TlsCert, cli.Serve.TlsKey, server)
		} else {
			err = web.StartServer(cli.Serve.Port, server)
		}
		sigolo.FatalCheck(err)
	case "stats <input>":
		tree, err := importing.Import(cli.Stats.Input, cli.PointsPerNode)
		sigolo.FatalCheck(err)

		stats := tree.Stats()
		fmt.Printf("Maximum depth: %d, total count: %d, nodes: %d\n", stats.MaxDepth, stats.PointCount, stats.NodeCount)
	case "find <input> <name>":
		tree, err := importing.Import(cli.Find.Input, cli.PointsPerNode)
		sigolo.FatalCheck(err)

		point, node, ok := tree.FindByNameBFS(cli.Find.Name)
		if !ok {
			sigolo.Errorf("No place with name '%s' found", cli.Find.Name)
			os.Exit(1)
		}
		fmt.Printf("%s in tile %s\n", point.String(), node.Tile().String())
	case "box <input> <min-lon> <min-lat> <max-lon> <max-lat>":
		tree, err := importing.Import(cli.Box.Input, cli.PointsPerNode)
		sigolo.FatalCheck(err)

		rect := common.NewRectangle(cli.Box.MinLon, cli.Box.MinLat, cli.Box.MaxLon, cli.Box.MaxLat)
		if cli.Box.Raw {
			err = ownIo.WritePointsAsGeoJson(tree.GetBoxCandidates(rect), os.Stdout)
		} else {
			err = ownIo.WritePointsAsGeoJson(tree.GetBoxPoints(rect, cli.Box.MaxPoints), os.Stdout)
		}
		sigolo.FatalCheck(err)
	case "tile <input> <z> <x> <y>":
		if cli.Tile.Z < 0 || cli.Tile.X < 0 || cli.Tile.Y < 0 {
			sigolo.Fatalf("Tile %d/%d/%d does not exist", cli.Tile.Z, cli.Tile.X, cli.Tile.Y)
		}

		tree, err := importing.Import(cli.Tile.Input, cli.PointsPerNode)
		sigolo.FatalCheck(err)

		err = ownIo.WritePointsAsGeoJson(tilePoints(tree), os.Stdout)
		sigolo.FatalCheck(err)
	default:
		sigolo.Errorf("Unknown command '%s'", ctx.Command())
	}
}

func createTileCache() (web.TileCache, error) {
	switch cli.Serve.Cache {
	case "memory":
		sigolo.Infof("Use memory cache for up to %d tiles", cli.Serve.CacheSize)
		return web.NewLruTileCache(cli.Serve.CacheSize), nil
	case "redis":
		sigolo.Infof("Use redis cache with TTL of %s", cli.Serve.RedisTtl)
		cache, err := web.NewRedisTileCache(cli.Serve.RedisUrl, "placetiles:", cli.Serve.RedisTtl)
		if err != nil {
			return nil, err
		}
		return cache, nil
	}
	sigolo.Info("Tile cache disabled")
	return web.NoopTileCache{}, nil
}

func tilePoints(tree *index.QTree) []*feature.Point {
	if cli.Tile.Scheme == "mercator" {
		return tree.GetTilePoints(cli.Tile.X, cli.Tile.Y, cli.Tile.Z)
	}
	rect := common.FlatTileToRectangle(cli.Tile.X, cli.Tile.Y, cli.Tile.Z)
	return tree.GetBoxPoints(rect, cli.Tile.MaxPoints)
}
