package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/syssam/umlgen"
	"github.com/syssam/umlgen/compiler"
	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/compiler/load"
	"github.com/syssam/umlgen/contrib/graphql"
	"github.com/syssam/umlgen/dialect/sql/schema"
	"github.com/syssam/umlgen/internal/events"
	"github.com/syssam/umlgen/internal/store"
	uml "github.com/syssam/umlgen/schema"
)

// Response headers.
const (
	cacheHeader       = "X-Cache"
	diagnosticsHeader = "X-Diagnostics"
)

// response is the JSON envelope of every non-file response.
type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func success(c *gin.Context, status int, data any, message string) {
	c.JSON(status, response{Status: "success", Message: message, Data: data})
}

// fail writes the error response matching err.
func (s *Server) fail(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case umlgen.IsNotFound(err):
		status = http.StatusNotFound
	case umlgen.IsValidationError(err), gen.IsSchemaError(err), gen.IsConfigError(err):
		status = http.StatusBadRequest
	}
	_ = c.Error(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, response{Status: "error", Message: http.StatusText(status), Error: msg})
}

// settings reads the generation settings from the query. The Java
// generator is the default.
func settings(c *gin.Context) compiler.Settings {
	s := compiler.Settings{
		Generator:   c.Query("target"),
		BasePackage: c.Query("basePackage"),
		ArtifactID:  c.Query("artifactId"),
		Dialect:     c.Query("dialect"),
		NamePolicy:  c.Query("names"),
		Features:    compiler.SplitList(c.Query("features")),
		Without:     compiler.SplitList(c.Query("without")),
	}
	if s.Generator == "" {
		s.Generator = c.DefaultQuery("generator", "java")
	}
	return s
}

// body reads the request body.
func body(c *gin.Context) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize))
	if err != nil {
		return nil, umlgen.NewValidationError("document", err)
	}
	return data, nil
}

// diagram decodes the diagram of the request body. YAML is accepted when
// the content type says so.
func diagram(c *gin.Context) ([]byte, *uml.Schema, error) {
	data, err := body(c)
	if err != nil {
		return nil, nil, err
	}
	format := load.JSON
	if strings.Contains(c.ContentType(), "yaml") {
		format = load.YAML
	}
	s, err := load.Unmarshal(data, format)
	if err != nil {
		return nil, nil, err
	}
	return data, s, nil
}

// options returns the generation options of the request.
func (s *Server) options(set compiler.Settings) ([]gen.Option, error) {
	opts, err := set.Options()
	if err != nil {
		return nil, err
	}
	return append(opts, s.cfg.DatasourceDefaults()), nil
}

// graph resolves the diagram of the request.
func (s *Server) graph(c *gin.Context) (*gen.Graph, bool) {
	_, d, err := diagram(c)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	opts, err := s.options(settings(c))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	g, err := compiler.NewGraph(d, opts...)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	c.Header(diagnosticsHeader, strconv.Itoa(len(g.Diagnostics)))
	return g, true
}

func (s *Server) publish(c *gin.Context, typ string, data map[string]any) {
	e := events.New(typ, data)
	e.RequestID = c.GetString("requestId")
	if err := s.events.Publish(c.Request.Context(), e); err != nil {
		s.logger.Warn("publish event", "type", typ, "error", err, "request_id", e.RequestID)
	}
}

// generate renders the diagram into a project archive. Archives are
// cached by document and settings.
func (s *Server) generate(c *gin.Context) {
	ctx := c.Request.Context()
	doc, d, err := diagram(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	set := settings(c)
	opts, err := s.options(set)
	if err != nil {
		s.fail(c, err)
		return
	}
	key := umlgen.CacheKey{Generator: set.Generator, Settings: set.Key(), Document: doc}.String()
	if p := s.cached(c, key); p != nil {
		s.sendProject(c, p, set.Generator, true)
		return
	}
	p, err := compiler.Render(ctx, d, opts...)
	if err != nil {
		s.fail(c, err)
		return
	}
	if data, err := umlgen.EncodeProject(p); err != nil {
		s.logger.Warn("encode project", "error", err)
	} else if err := s.cache.Set(ctx, key, data, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache project", "key", key, "error", err)
	}
	s.sendProject(c, p, set.Generator, false)
}

func (s *Server) cached(c *gin.Context, key string) *gen.Project {
	data, err := s.cache.Get(c.Request.Context(), key)
	if err != nil {
		s.logger.Warn("read cached project", "key", key, "error", err)
		return nil
	}
	if data == nil {
		return nil
	}
	p, err := umlgen.DecodeProject(data)
	if err != nil {
		s.logger.Warn("decode cached project", "key", key, "error", err)
		return nil
	}
	return p
}

func (s *Server) sendProject(c *gin.Context, p *gen.Project, generator string, hit bool) {
	data, err := p.Zip()
	if err != nil {
		s.fail(c, err)
		return
	}
	state := "MISS"
	if hit {
		state = "HIT"
	}
	c.Header(cacheHeader, state)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.ArchiveName()))
	c.Data(http.StatusOK, "application/zip", data)
	s.publish(c, events.ProjectGenerated, map[string]any{
		"artifactId": p.Name,
		"generator":  generator,
		"files":      len(p.Files),
		"cached":     hit,
	})
}

// contexts returns the entity contexts of the diagram.
func (s *Server) contexts(c *gin.Context) {
	g, ok := s.graph(c)
	if !ok {
		return
	}
	format := c.DefaultQuery("format", compiler.FormatJSON)
	data, err := compiler.EncodeContexts(g.Contexts(), format)
	if err != nil {
		s.fail(c, err)
		return
	}
	contentType := "application/json"
	switch strings.ToLower(format) {
	case compiler.FormatYAML, "yml":
		contentType = "application/yaml"
	case compiler.FormatMsgpack:
		contentType = "application/msgpack"
	}
	c.Data(http.StatusOK, contentType, data)
}

// ddl returns the SQL script creating the tables of the diagram.
func (s *Server) ddl(c *gin.Context) {
	g, ok := s.graph(c)
	if !ok {
		return
	}
	script, err := schema.DDL(c.Request.Context(), g, g.Dialect)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/sql; charset=utf-8", []byte(script))
}

// graphql returns the GraphQL schema of the diagram.
func (s *Server) graphql(c *gin.Context) {
	g, ok := s.graph(c)
	if !ok {
		return
	}
	mutations := c.DefaultQuery("mutations", "true") != "false"
	sdl, err := graphql.NewGenerator(graphql.WithMutations(mutations)).SDL(g)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/graphql; charset=utf-8", []byte(sdl))
}

// putBackup creates or replaces the backup of a room. The document must be
// JSON and is stored verbatim.
func (s *Server) putBackup(c *gin.Context) {
	data, err := body(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !json.Valid(data) {
		s.fail(c, umlgen.NewValidationError("document", errors.New("document is not valid JSON")))
		return
	}
	b := &store.Backup{RoomID: c.Param("roomId"), Document: data}
	created, err := s.store.Put(c.Request.Context(), b)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.publish(c, events.BackupSaved, map[string]any{"roomId": b.RoomID, "created": created})
	if created {
		success(c, http.StatusCreated, b, "backup created")
		return
	}
	success(c, http.StatusOK, b, "backup updated")
}

// getBackup returns the stored document of a room as is.
func (s *Server) getBackup(c *gin.Context) {
	b, err := s.store.Get(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Last-Modified", time.Time(b.UpdatedAt).UTC().Format(http.TimeFormat))
	c.Data(http.StatusOK, "application/json", b.Document)
}

func (s *Server) deleteBackup(c *gin.Context) {
	id := c.Param("roomId")
	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.publish(c, events.BackupDeleted, map[string]any{"roomId": id})
	c.Status(http.StatusNoContent)
}
