package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sitefeed/sitefeed"
	"github.com/sitefeed/sitefeed/fetch"
	"github.com/sitefeed/sitefeed/logger"
	"github.com/sitefeed/sitefeed/scraper"
	"github.com/sitefeed/sitefeed/sources"
)

const rssContentType = "application/rss+xml; charset=utf-8"

// Server is the HTTP front end: it maps request parameters onto a feed
// request and returns the rendered RSS.
type Server struct {
	fetcher *fetch.Fetcher
	store   *sources.Store
}

// NewServer creates a server. store may be nil, which disables the
// saved-sources routes.
func NewServer(fetcher *fetch.Fetcher, store *sources.Store) *Server {
	return &Server{fetcher: fetcher, store: store}
}

// SetupRouter configures the gin router.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET("/feed", s.HandleFeed)
	if s.store != nil {
		router.GET("/feeds/:name", s.HandleSavedFeed)
	}

	return router
}

// errorResponse creates a standardized error response body.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// HandleFeed handles GET /feed. Bad parameters and failed origin fetches
// both surface as 400; a successful generation is the rendered XML.
func (s *Server) HandleFeed(ctx *gin.Context) {
	params, err := requestParams(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_request", err.Error()))
		return
	}

	s.serveFeed(ctx, params)
}

// HandleSavedFeed handles GET /feeds/:name using a stored request.
func (s *Server) HandleSavedFeed(ctx *gin.Context) {
	source, err := s.store.GetByName(ctx.Param("name"))
	if errors.Is(err, sources.ErrSourceNotFound) {
		ctx.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse("internal_error", "failed to load source"))
		return
	}

	s.serveFeed(ctx, source.Params())
}

func (s *Server) serveFeed(ctx *gin.Context, params scraper.RequestParams) {
	req, err := params.Build()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_request", err.Error()))
		return
	}

	generated, err := sitefeed.GenerateFeed(s.fetcher, req)
	if err != nil {
		logger.Warnf("[api] feed generation for %s failed: %v", req.Name, err)
		ctx.JSON(http.StatusBadRequest, errorResponse("fetch_failed", err.Error()))
		return
	}

	ctx.Data(http.StatusOK, rssContentType, []byte(generated.RSS()))
}

// requestParams maps the documented query parameters onto RequestParams.
func requestParams(ctx *gin.Context) (scraper.RequestParams, error) {
	params := scraper.RequestParams{
		Name:          ctx.Query("name"),
		URL:           ctx.Query("url"),
		ItemSelector:  ctx.Query("item_selector"),
		TitleSelector: ctx.Query("title_selector"),
		LinkSelector:  ctx.Query("link_selector"),
		DateSelector:  ctx.Query("pub_date_selector"),
		Order:         ctx.Query("order"),
		MaxItems:      scraper.MaxItemsCeiling,
	}

	if raw := ctx.Query("max_items"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return scraper.RequestParams{}, errors.New("max_items must be a number")
		}
		params.MaxItems = n
	}

	return params, nil
}
