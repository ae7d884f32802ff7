package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediconnect/ehr-api/internal/handler"
	"github.com/mediconnect/ehr-api/internal/middleware"
	"github.com/mediconnect/ehr-api/internal/model"
	"github.com/mediconnect/ehr-api/internal/service/record"
)

type Handler struct {
	service *record.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service *record.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients", h.auth.Authenticate())
	{
		patients.GET("/:uid/records", h.GetRecords)

		doctorOnly := h.auth.RequireRole(model.RoleDoctor)
		patients.POST("/:uid/prescriptions", doctorOnly, h.AddPrescription)
		patients.POST("/:uid/allergies", doctorOnly, h.AddAllergy)
		patients.POST("/:uid/tests", doctorOnly, h.AddTestRecord)
	}
}

// GetRecords returns the aggregated bundle for one patient. Doctors see
// everything, patients only their own chart, chemists prescriptions only.
func (h *Handler) GetRecords(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	uid := c.Param("uid")

	if actor.Role == model.RolePatient && actor.UID != uid {
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("patients may only view their own records"))
		return
	}

	bundle, err := h.service.LoadPatientRecords(c.Request.Context(), uid)
	if err != nil {
		c.Error(err)
		return
	}

	if actor.Role == model.RoleChemist {
		bundle = bundle.PrescriptionsOnly()
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(bundle))
}

func (h *Handler) AddPrescription(c *gin.Context) {
	var req model.AddPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	bundle, err := h.service.AddPrescription(c.Request.Context(), middleware.ActorFrom(c), c.Param("uid"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(bundle))
}

func (h *Handler) AddAllergy(c *gin.Context) {
	var req model.AddAllergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	bundle, err := h.service.AddAllergy(c.Request.Context(), middleware.ActorFrom(c), c.Param("uid"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(bundle))
}

// AddTestRecord accepts a multipart form with a test_name field and an image
// file, and runs the upload-and-link workflow.
func (h *Handler) AddTestRecord(c *gin.Context) {
	testName := c.PostForm("test_name")

	fileHeader, err := c.FormFile("image")
	var image *record.Image
	if err == nil && fileHeader != nil {
		f, openErr := fileHeader.Open()
		if openErr != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read image"))
			return
		}
		defer f.Close()
		image = &record.Image{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Reader:      f,
		}
	}

	bundle, err := h.service.AddTestRecord(c.Request.Context(), middleware.ActorFrom(c), c.Param("uid"), testName, image)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(bundle))
}
