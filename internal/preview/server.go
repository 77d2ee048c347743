package preview

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Server serves the export output read-only for local inspection: the
// markdown articles, downloaded images, optional HTML previews and the
// metadata index. It never writes anything.
type Server struct {
	outputDir    string
	imagesDir    string
	htmlDir      string
	metadataFile string
}

func NewServer(outputDir, imagesDir, htmlDir, metadataFile string) *Server {
	return &Server{
		outputDir:    outputDir,
		imagesDir:    imagesDir,
		htmlDir:      htmlDir,
		metadataFile: metadataFile,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine().Run(addr)
}

func (s *Server) engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), gzip.Gzip(gzip.DefaultCompression))

	engine.GET("/articles", s.listArticles)
	engine.StaticFS("/articles/files", gin.Dir(s.outputDir, false))
	engine.StaticFS("/images", gin.Dir(s.imagesDir, false))
	if s.htmlDir != "" {
		engine.StaticFS("/preview", gin.Dir(s.htmlDir, false))
	}
	engine.GET("/metadata", s.metadata)
	return engine
}

func (s *Server) listArticles(c *gin.Context) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"articles": []string{}})
		return
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	c.JSON(http.StatusOK, gin.H{"articles": names})
}

func (s *Server) metadata(c *gin.Context) {
	data, err := os.ReadFile(filepath.Clean(s.metadataFile))
	if err != nil {
		c.Data(http.StatusOK, "application/json", []byte("[]"))
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}
