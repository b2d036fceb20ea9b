package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"millex/internal"
	"millex/internal/catalog"
	"millex/internal/config"
	"millex/internal/order"
)

type Server struct {
	cfg      config.Config
	fetcher  *catalog.Fetcher
	sessions *SessionStore
	engine   *gin.Engine
}

func New(cfg config.Config, fetcher *catalog.Fetcher) *Server {
	s := &Server{
		cfg:      cfg,
		fetcher:  fetcher,
		sessions: NewSessionStore(12 * time.Hour),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	api.GET("/lines", s.listLines)
	api.GET("/lines/:line/products", s.listProducts)
	api.GET("/lines/:line/products/:code/image", s.productImage)
	api.GET("/cart", s.getCart)
	api.DELETE("/cart", s.clearCart)
	api.PUT("/cart/items/:code", s.setCartItem)
	api.GET("/order/message", s.orderMessage)
	api.GET("/order/link", s.orderLink)
	api.GET("/order/pdf", s.orderPDF)
	api.GET("/order/xlsx", s.orderXLSX)

	s.engine = engine
	return s
}

func (s *Server) Run() error {
	fmt.Printf("catalogd listening on %s\n", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) listLines(c *gin.Context) {
	names := make([]string, 0, len(s.cfg.CatalogSources))
	for _, src := range s.cfg.CatalogSources {
		names = append(names, src.Name)
	}
	c.JSON(http.StatusOK, gin.H{"lines": names})
}

type productJSON struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	HasImage bool            `json:"hasImage"`
}

func (s *Server) listProducts(c *gin.Context) {
	line, ok := s.loadLine(c)
	if !ok {
		return
	}

	pageSize := intQuery(c, "pageSize", s.cfg.PageSize)
	page := intQuery(c, "page", 1)

	idx := catalog.BuildIndex(line)
	seq := idx.Search(c.Query("query"))

	records, page, err := catalog.Paginate(seq, pageSize, page)
	if err != nil {
		s.renderError(c, err)
		return
	}
	pages, err := catalog.PageCount(seq, pageSize)
	if err != nil {
		s.renderError(c, err)
		return
	}

	products := make([]productJSON, 0, len(records))
	for _, record := range records {
		products = append(products, productJSON{
			Code:     record.Code,
			Name:     record.Name,
			Price:    record.Price,
			HasImage: record.Image != nil,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"line":     line.Name,
		"page":     page,
		"pages":    pages,
		"products": products,
		"warnings": line.Warnings,
	})
}

func (s *Server) productImage(c *gin.Context) {
	line, ok := s.loadLine(c)
	if !ok {
		return
	}

	code := c.Param("code")
	for _, record := range line.Records {
		if record.Code != code {
			continue
		}
		if record.Image == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product has no image"})
			return
		}
		c.Data(http.StatusOK, http.DetectContentType(record.Image), record.Image)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "unknown product code"})
}

type cartItemRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func (s *Server) setCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := s.sessions.Acquire(c)
	sess.Lock()
	defer sess.Unlock()

	snapshot := internal.LineSnapshot{Name: req.Name, Price: req.Price}
	if err := sess.Cart.SetQuantity(c.Param("code"), snapshot, req.Quantity); err != nil {
		s.renderError(c, err)
		return
	}
	s.renderCart(c, sess)
}

func (s *Server) getCart(c *gin.Context) {
	sess := s.sessions.Acquire(c)
	sess.Lock()
	defer sess.Unlock()
	s.renderCart(c, sess)
}

func (s *Server) clearCart(c *gin.Context) {
	sess := s.sessions.Acquire(c)
	sess.Lock()
	defer sess.Unlock()
	sess.Cart.Clear()
	s.renderCart(c, sess)
}

func (s *Server) orderMessage(c *gin.Context) {
	sess := s.sessions.Acquire(c)
	sess.Lock()
	defer sess.Unlock()
	c.String(http.StatusOK, order.Message(sess.Cart))
}

func (s *Server) orderLink(c *gin.Context) {
	sess := s.sessions.Acquire(c)
	sess.Lock()
	defer sess.Unlock()
	c.JSON(http.StatusOK, gin.H{"link": order.WhatsAppLink(sess.Cart, s.cfg.WhatsAppPhone)})
}

func (s *Server) orderPDF(c *gin.Context) {
	sess := s.sessions.Acquire(c)
	sess.Lock()
	defer sess.Unlock()
	blob, err := order.PDF(sess.Cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", order.PDFFileName))
	c.Data(http.StatusOK, order.PDFMIMEType, blob)
}

func (s *Server) orderXLSX(c *gin.Context) {
	sess := s.sessions.Acquire(c)
	sess.Lock()
	defer sess.Unlock()
	blob, err := order.XLSX(sess.Cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", order.XLSXFileName))
	c.Data(http.StatusOK, order.XLSXMIMEType, blob)
}

// loadLine resolves the :line path parameter and runs a full fetch-and-parse
// evaluation, the same cycle every user interaction triggers.
func (s *Server) loadLine(c *gin.Context) (internal.CatalogLine, bool) {
	src, ok := s.cfg.SourceFor(c.Param("line"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown catalog line"})
		return internal.CatalogLine{}, false
	}

	line, err := s.fetcher.Load(c.Request.Context(), src)
	if err != nil {
		s.renderError(c, err)
		return internal.CatalogLine{}, false
	}
	return line, true
}

// renderCart writes the cart body. Callers hold the session lock.
func (s *Server) renderCart(c *gin.Context, sess *Session) {
	c.JSON(http.StatusOK, gin.H{
		"items": sess.Cart.Lines(),
		"total": sess.Cart.Total(),
	})
}

func (s *Server) renderError(c *gin.Context, err error) {
	var fetchErr *internal.FetchError
	var parseErr *internal.ParseError
	switch {
	case errors.As(err, &fetchErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &parseErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, internal.ErrNegativeQuantity), errors.Is(err, internal.ErrInvalidPageSize):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
