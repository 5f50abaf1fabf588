package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"competitors/logger"
	"competitors/lookup"
	"competitors/query"

	"github.com/gin-gonic/gin"
)

var errLookupDisabled = errors.New("commodity lookup is not configured")

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) defaultCompetitors(c *gin.Context) {
	s.competitors(c, query.Request{})
}

func (s *Server) codeCompetitors(c *gin.Context) {
	s.competitors(c, query.Request{Codes: []string{c.Param("codeA"), c.Param("codeB")}})
}

func (s *Server) companyCompetitors(c *gin.Context) {
	s.competitors(c, query.Request{Company: c.Param("name")})
}

func (s *Server) competitors(c *gin.Context, req query.Request) {
	ctx := c.Request.Context()
	key := req.String()

	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn(logger.StatusNet, "Cache read %s: %v", key, err)
		} else if ok {
			c.Header("X-Cache", "hit")
			c.Data(http.StatusOK, "application/json; charset=utf-8", data)
			return
		}
	}

	res, err := s.runner.Run(ctx, req)
	if err != nil {
		respondQueryError(c, err)
		return
	}

	data, err := json.Marshal(res)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			logger.Warn(logger.StatusNet, "Cache write %s: %v", key, err)
		}
	}
	if s.hub != nil {
		s.hub.Broadcast(MessageQuerySummary, summarize(res))
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func summarize(res *query.Result) QuerySummary {
	names := make([]string, 0, len(res.Highlights))
	for _, h := range res.Highlights {
		names = append(names, h.Company)
	}
	return QuerySummary{
		ID:          res.ID,
		Mode:        string(res.Mode),
		Codes:       res.Codes,
		Competitors: len(res.Companies),
		Highlights:  names,
	}
}

func (s *Server) lookupCode(c *gin.Context) {
	s.respondLookup(c, c.Param("code"), Lookup.ByCode)
}

func (s *Server) lookupSearch(c *gin.Context) {
	s.respondLookup(c, c.Query("q"), Lookup.ByText)
}

func (s *Server) lookupChapter(c *gin.Context) {
	s.respondLookup(c, c.Param("chapter"), Lookup.ByChapter)
}

func (s *Server) respondLookup(c *gin.Context, arg string, fn func(Lookup, string) ([]lookup.Entry, bool)) {
	if s.lookup == nil {
		RespondError(c, http.StatusServiceUnavailable, "lookup_disabled", errLookupDisabled)
		return
	}
	entries, ok := fn(s.lookup, arg)
	if !ok {
		RespondError(c, http.StatusBadRequest, "invalid_input", fmt.Errorf("invalid lookup input %q", arg))
		return
	}
	if entries == nil {
		entries = []lookup.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
