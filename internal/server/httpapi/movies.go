package httpapi

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/movievault/internal/server/services"
	"github.com/gin-gonic/gin"
)

type MovieHandler struct {
	movies *services.MovieService
}

func NewMovieHandler(movies *services.MovieService) *MovieHandler {
	return &MovieHandler{movies: movies}
}

type movieForm struct {
	Name       string `form:"name" binding:"required"`
	Synopsis   string `form:"synopsis"`
	Duration   int    `form:"duration"`
	AllPublic  bool   `form:"all_public"`
	CategoryID int64  `form:"category_id"`
}

// imageFromForm reads the optional multipart "image" file. A missing file is
// not an error; a file that cannot be opened is.
func imageFromForm(c *gin.Context) (*services.ImagePayload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &services.ImagePayload{
		Content:   content,
		Extension: filepath.Ext(fh.Filename),
	}, nil
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *MovieHandler) GetAll(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		movies, err := h.movies.SearchByName(c.Request.Context(), name)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, movies)
		return
	}
	movies, err := h.movies.GetAll(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, movies)
}

func (h *MovieHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	movie, err := h.movies.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

func (h *MovieHandler) GetByCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("categoryId"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}
	movies, err := h.movies.GetByCategory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, movies)
}

func (h *MovieHandler) Create(c *gin.Context) {
	var form movieForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}
	image, err := imageFromForm(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image upload")
		return
	}
	movie, err := h.movies.Create(c.Request.Context(), services.MovieCreateInput{
		Name:       form.Name,
		Synopsis:   form.Synopsis,
		Duration:   form.Duration,
		AllPublic:  form.AllPublic,
		CategoryID: form.CategoryID,
		Image:      image,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movie)
}

func (h *MovieHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var form movieForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}
	image, err := imageFromForm(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image upload")
		return
	}
	in := services.MovieUpdateInput{
		ID:         id,
		Name:       form.Name,
		Synopsis:   form.Synopsis,
		Duration:   form.Duration,
		AllPublic:  form.AllPublic,
		CategoryID: form.CategoryID,
		Image:      image,
	}
	if err := h.movies.Update(c.Request.Context(), id, in); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MovieHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	found, err := h.movies.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "not found")
		return
	}
	c.Status(http.StatusNoContent)
}
