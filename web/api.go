package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/gorilla/mux"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"net/http"
	"placetiles/common"
	"placetiles/feature"
	"placetiles/index"
	ownIo "placetiles/io"
	"strconv"
	"time"
)

const (
	schemeFlat     = "flat"
	schemeMercator = "mercator"

	formatJson    = "json"
	formatGeoJson = "geojson"

	// maxZoom keeps the number of flat tiles (2*2^zoom) within the range of a 32 bit int.
	maxZoom = 29
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func NewErrorResponse(message string, err error) ErrorResponse {
	response := ErrorResponse{
		Error: message,
	}
	if err != nil {
		response.Details = err.Error()
	}
	return response
}

type tileRequest struct {
	scheme string
	tile   common.TileIndex
	format string
}

func (r tileRequest) cacheKey() string {
	return fmt.Sprintf("%s/%s.%s", r.scheme, r.tile.String(), r.format)
}

// Server answers tile requests from an already filled index. The index is only read, so requests are handled
// concurrently without any locking.
type Server struct {
	placeIndex    index.PlaceIndex
	pointsPerTile int
	cache         TileCache
	router        *mux.Router
}

// NewServer creates a server returning at most pointsPerTile points per tile. A nil cache disables caching.
func NewServer(placeIndex index.PlaceIndex, pointsPerTile int, cache TileCache) *Server {
	if cache == nil {
		cache = NoopTileCache{}
	}

	s := &Server{
		placeIndex:    placeIndex,
		pointsPerTile: pointsPerTile,
		cache:         cache,
	}
	s.router = s.initRouter()
	return s
}

func (s *Server) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.router.ServeHTTP(writer, request)
}

func StartServer(port string, server *Server) error {
	sigolo.Infof("Start server without TLS support on port %s", port)
	err := http.ListenAndServe(":"+port, server)
	return errors.Wrapf(err, "Server on port %s stopped", port)
}

func StartServerTls(port string, certFile string, keyFile string, server *Server) error {
	sigolo.Infof("Start server with TLS support on port %s", port)
	err := http.ListenAndServeTLS(":"+port, certFile, keyFile, server)
	return errors.Wrapf(err, "Server on port %s stopped", port)
}

func (s *Server) initRouter() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", metricsHandler()).Methods(http.MethodGet)

	// Must be registered before the generic route, since "mercator" would otherwise be taken as grid name.
	r.HandleFunc("/mercator/{z}/{x}/{y:[^/.]+}.{format}", func(writer http.ResponseWriter, request *http.Request) {
		s.handleTile(writer, request, schemeMercator)
	}).Methods(http.MethodGet)

	r.HandleFunc("/{grid}/{z}/{x}/{y:[^/.]+}.{format}", func(writer http.ResponseWriter, request *http.Request) {
		s.handleTile(writer, request, schemeFlat)
	}).Methods(http.MethodGet)

	return r
}

func (s *Server) handleTile(writer http.ResponseWriter, request *http.Request, scheme string) {
	startTime := time.Now()
	status := http.StatusOK
	defer func() {
		requestsTotal.WithLabelValues(scheme, strconv.Itoa(status)).Inc()
		requestDurationMs.WithLabelValues(scheme).Observe(float64(time.Since(startTime).Microseconds()) / 1000.0)
	}()

	writer.Header().Set("Access-Control-Allow-Origin", "*")

	tileReq, err := parseTileRequest(mux.Vars(request), scheme)
	if err != nil {
		sigolo.Debugf("Invalid tile request %s: %+v", request.URL.Path, err)
		status = http.StatusBadRequest
		s.writeError(writer, status, "Invalid tile request", err)
		return
	}
	sigolo.Debugf("Tile request %s (grid=%s)", tileReq.cacheKey(), mux.Vars(request)["grid"])

	data, err := s.getOrRenderTile(request, tileReq)
	if err != nil {
		sigolo.Errorf("Error rendering tile %s: %+v", tileReq.cacheKey(), err)
		status = http.StatusInternalServerError
		s.writeError(writer, status, fmt.Sprintf("Error rendering tile %s", tileReq.tile.String()), err)
		return
	}

	if tileReq.format == formatGeoJson {
		writer.Header().Set("Content-Type", "application/geo+json")
	} else {
		writer.Header().Set("Content-Type", "application/json")
	}

	_, err = writer.Write(data)
	if err != nil {
		sigolo.Errorf("Error writing response for tile %s: %+v", tileReq.cacheKey(), err)
	}
}

func (s *Server) getOrRenderTile(request *http.Request, tileReq tileRequest) ([]byte, error) {
	key := tileReq.cacheKey()

	data, ok, err := s.cache.Get(request.Context(), key)
	if err != nil {
		// A broken cache must not break the tile server, so the tile is rendered as if it wasn't cached.
		sigolo.Errorf("Error reading tile %s from cache: %+v", key, err)
		cacheErrorsTotal.Inc()
	} else if ok {
		sigolo.Tracef("Cache hit for tile %s", key)
		cacheHitsTotal.Inc()
		return data, nil
	} else {
		cacheMissesTotal.Inc()
	}

	points := s.queryPoints(tileReq)
	pointsPerTile.Observe(float64(len(points)))
	if len(points) == 0 {
		emptyTilesTotal.Inc()
	}
	sigolo.Debugf("Found %d points for tile %s", len(points), key)

	buffer := &bytes.Buffer{}
	if tileReq.format == formatGeoJson {
		err = ownIo.WritePointsAsGeoJson(points, buffer)
	} else {
		err = ownIo.WritePointsAsJson(points, buffer)
	}
	if err != nil {
		return nil, err
	}

	data = buffer.Bytes()
	err = s.cache.Set(request.Context(), key, data)
	if err != nil {
		sigolo.Errorf("Error writing tile %s to cache: %+v", key, err)
		cacheErrorsTotal.Inc()
	}

	return data, nil
}

func (s *Server) queryPoints(tileReq tileRequest) []*feature.Point {
	tile := tileReq.tile
	if tileReq.scheme == schemeMercator {
		return s.placeIndex.GetTilePoints(tile.X(), tile.Y(), tile.Z())
	}

	// The flat tile might cover a different area than the sphere-Mercator tiles of the index with the same address.
	rect := common.FlatTileToRectangle(tile.X(), tile.Y(), tile.Z())
	return s.placeIndex.GetBoxPoints(rect, s.pointsPerTile)
}

func (s *Server) writeError(writer http.ResponseWriter, status int, message string, err error) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	errorResponseBytes, err := json.Marshal(NewErrorResponse(message, err))
	if err != nil {
		sigolo.Errorf("Error creating and marshalling error response object: %+v", err)
	}

	_, err = writer.Write(errorResponseBytes)
	if err != nil {
		sigolo.Errorf("Error writing error response: %+v", err)
	}
}

func parseTileRequest(vars map[string]string, scheme string) (tileRequest, error) {
	z, err := strconv.Atoi(vars["z"])
	if err != nil {
		return tileRequest{}, errors.Errorf("Zoom level '%s' is not an integer", vars["z"])
	}
	x, err := strconv.Atoi(vars["x"])
	if err != nil {
		return tileRequest{}, errors.Errorf("Tile x '%s' is not an integer", vars["x"])
	}
	y, err := strconv.Atoi(vars["y"])
	if err != nil {
		return tileRequest{}, errors.Errorf("Tile y '%s' is not an integer", vars["y"])
	}

	format := vars["format"]
	if format != formatJson && format != formatGeoJson {
		return tileRequest{}, errors.Errorf("Unknown format '%s', use '%s' or '%s'", format, formatJson, formatGeoJson)
	}

	if z < 0 || z > maxZoom {
		return tileRequest{}, errors.Errorf("Zoom level %d is not within [0, %d]", z, maxZoom)
	}

	xTiles, yTiles := common.FlatTilesAtZoom(z)
	if scheme == schemeMercator {
		xTiles, yTiles = 1<<z, 1<<z
	}
	if x < 0 || x >= xTiles || y < 0 || y >= yTiles {
		return tileRequest{}, errors.Errorf("Tile %d/%d/%d does not exist, x must be within [0, %d) and y within [0, %d)", z, x, y, xTiles, yTiles)
	}

	return tileRequest{
		scheme: scheme,
		tile:   common.TileIndex{x, y, z},
		format: format,
	}, nil
}
