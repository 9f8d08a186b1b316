package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"square-mapper/models"
	"square-mapper/persistence"
	"square-mapper/services"
)

// MapController exposes the map service over REST
type MapController struct {
	mapService *services.MapService
}

// NewMapController creates a MapController
func NewMapController(mapService *services.MapService) *MapController {
	return &MapController{mapService: mapService}
}

// RegisterRoutes registers the map routes
func (mc *MapController) RegisterRoutes(route *gin.RouterGroup) {
	m := route.Group("/map")
	{
		m.GET("", mc.getMap)
		m.GET("/dump", mc.getDump)
		m.GET("/cells/:x/:y", mc.getCell)
		m.PUT("/cells/:x/:y", mc.updateCell)
		m.POST("/reset", mc.reset)
		m.PUT("/name", mc.rename)
		m.POST("/persist", mc.persist)
		m.POST("/load", mc.load)
	}
}

func coordinates(ctx *gin.Context) (int, int, bool) {
	x, errX := strconv.Atoi(ctx.Param("x"))
	y, errY := strconv.Atoi(ctx.Param("y"))
	if errX != nil || errY != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "coordinates must be integers"})
		return 0, 0, false
	}
	return x, y, true
}

func persistMessage(err error) (string, bool) {
	var perr *services.PersistError
	if errors.As(err, &perr) {
		return perr.Error(), true
	}
	return "", false
}

func (mc *MapController) dump() DumpResponse {
	return DumpResponse{
		Name: mc.mapService.Name(),
		Dump: mc.mapService.Format(),
	}
}

// getMap returns the full map state
func (mc *MapController) getMap(ctx *gin.Context) {
	snapshot := mc.mapService.Snapshot()
	ctx.JSON(http.StatusOK, MapResponse{
		Name:      snapshot.Name,
		Width:     snapshot.Width,
		Height:    snapshot.Height,
		InvertRow: snapshot.InvertRow,
		InvertCol: snapshot.InvertCol,
		Dump:      snapshot.Dump,
		Cells:     mc.mapService.Cells(),
	})
}

// getDump returns the canonical dump as plain text
func (mc *MapController) getDump(ctx *gin.Context) {
	ctx.String(http.StatusOK, "%s", mc.mapService.Format())
}

// getCell reads internal coordinates
func (mc *MapController) getCell(ctx *gin.Context) {
	x, y, ok := coordinates(ctx)
	if !ok {
		return
	}

	cell, err := mc.mapService.Get(x, y)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, cell)
}

// updateCell writes a tile at external coordinates
func (mc *MapController) updateCell(ctx *gin.Context) {
	x, y, ok := coordinates(ctx)
	if !ok {
		return
	}

	var request UpdateCellRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind, err := models.ParseTileKind(request.Tile)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	change, err := mc.mapService.Update(x, y, kind)
	if err != nil {
		if msg, ok := persistMessage(err); ok {
			ctx.JSON(http.StatusOK, UpdateCellResponse{Change: change, PersistError: msg})
			return
		}
		if errors.Is(err, models.ErrOutOfBounds) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, UpdateCellResponse{Change: change})
}

// reset clears the map
func (mc *MapController) reset(ctx *gin.Context) {
	err := mc.mapService.Reset()
	response := mc.dump()
	if err != nil {
		response.PersistError, _ = persistMessage(err)
	}
	ctx.JSON(http.StatusOK, response)
}

// rename changes the map name
func (mc *MapController) rename(ctx *gin.Context) {
	var request RenameRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := mc.mapService.Rename(request.Name)
	if errors.Is(err, persistence.ErrInvalidName) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response := mc.dump()
	if err != nil {
		response.PersistError, _ = persistMessage(err)
	}
	ctx.JSON(http.StatusOK, response)
}

// persist saves the map again, e.g. after a failed write
func (mc *MapController) persist(ctx *gin.Context) {
	if err := mc.mapService.Persist(); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, mc.dump())
}

// load replaces the map with the stored copy
func (mc *MapController) load(ctx *gin.Context) {
	err := mc.mapService.Load()
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, mc.dump())
	case errors.Is(err, persistence.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrIncompatibleMap):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
