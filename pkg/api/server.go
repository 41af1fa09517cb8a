// Package api provides the REST API server for mtrktool
package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/james-see/mtrktool/pkg/smf"
	"github.com/james-see/mtrktool/pkg/trackchunk"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title MTrkTool API
// @version 1.0
// @description API for inspecting and recomposing MIDI track chunks
// @host localhost:8080
// @BasePath /api/v1

// EventInfo is the JSON shape of one decoded track event.
type EventInfo struct {
	Index        int     `json:"index"`
	DeltaTime    uint32  `json:"delta_time"`
	AbsoluteTime uint32  `json:"absolute_time"`
	Position     float64 `json:"position"`
	Type         string  `json:"type"`
	Kind         string  `json:"kind"`
	Running      bool    `json:"running_status"`
	Description  string  `json:"description"`
	Bytes        string  `json:"bytes"`
}

// TrackInfo is the JSON shape of one decoded track.
type TrackInfo struct {
	Track        int         `json:"track"`
	TimeDivision uint16      `json:"time_division"`
	Events       []EventInfo `json:"events"`
}

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/inspect", handleInspect)
		v1.POST("/recompose", handleRecompose)
		v1.GET("/info", serviceInfo)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r.Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mtrktool",
	})
}

// serviceInfo godoc
// @Summary Describe the service
// @Description Returns the accepted input formats and operations
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/info [get]
func serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":    []string{"smf", "track"},
		"operations": []string{"inspect", "recompose"},
	})
}

// handleInspect godoc
// @Summary Decode a track chunk into its event listing
// @Description Upload a .mid file or a bare MTrk chunk and receive the decoded events as JSON
// @Tags tracks
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "MIDI file or MTrk chunk"
// @Success 200 {object} map[string][]TrackInfo
// @Failure 400 {object} map[string]string
// @Router /api/v1/inspect [post]
func handleInspect(c *gin.Context) {
	data, _, ok := readUpload(c)
	if !ok {
		return
	}

	tracks, err := smf.Chunks(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	infos := make([]TrackInfo, 0, len(tracks))
	for i, track := range tracks {
		info := TrackInfo{Track: i, TimeDivision: track.TimeDivision}
		for j, ev := range track.Events() {
			info.Events = append(info.Events, describeEvent(j, ev))
		}
		infos = append(infos, info)
	}

	c.JSON(http.StatusOK, gin.H{"tracks": infos})
}

// handleRecompose godoc
// @Summary Recompose a track chunk
// @Description Upload a .mid file or a bare MTrk chunk and receive the recomposed bytes
// @Tags tracks
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "MIDI file or MTrk chunk"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/recompose [post]
func handleRecompose(c *gin.Context) {
	data, filename, ok := readUpload(c)
	if !ok {
		return
	}

	var result []byte
	switch smf.DetectFormat(data) {
	case smf.FormatSMF:
		f, err := smf.Parse(data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result = f.Bytes()
	case smf.FormatTrack:
		track, err := trackchunk.Parse(data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result = track.Recompose()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a MIDI file or track chunk"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "audio/midi", result)
}

func readUpload(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, "", false
	}
	return data, header.Filename, true
}

func describeEvent(index int, ev trackchunk.ChunkEvent) EventInfo {
	info := EventInfo{
		Index:        index,
		DeltaTime:    ev.DeltaTime(),
		AbsoluteTime: ev.AbsoluteTime(),
		Position:     ev.Position(),
		Type:         fmt.Sprintf("0x%02X", ev.TypeByte()),
		Running:      ev.RunningStatus != 0,
		Description:  ev.Describe(),
		Bytes:        fmt.Sprintf("% X", ev.ComputedData()),
	}
	if cls, ok := ev.Event(); ok {
		info.Kind = cls.Kind.String()
	} else {
		info.Kind = "unknown"
	}
	return info
}
