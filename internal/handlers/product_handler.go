package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"shopadmin/internal/middleware"
	"shopadmin/internal/models"
	"shopadmin/internal/repositories"
	"shopadmin/internal/response"
	"shopadmin/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service   *services.ProductService
	uploadDir string
	validate  *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, uploadDir string) *ProductHandler {
	return &ProductHandler{
		service:   service,
		uploadDir: uploadDir,
		validate:  validator.New(),
	}
}

// RegisterRoutes registers the product routes. Listing works for
// anonymous callers (scoped to active products); mutations are gated.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired, authOptional fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", authOptional, h.HandleList)
	productRoutes.Get("/:id", h.HandleGet)
	productRoutes.Post("/", authRequired, middleware.PermitRoles(models.RoleAdmin, models.RoleManaged), h.HandleCreate)
	productRoutes.Patch("/:id", authRequired, middleware.PermitRoles(models.RoleAdmin, models.RoleSuperAdmin), h.HandleUpdate)
	productRoutes.Patch("/:id/status", authRequired, middleware.PermitRoles(models.RoleAdmin, models.RoleSuperAdmin), h.HandleUpdateStatus)
	productRoutes.Delete("/product/:id", authRequired, middleware.PermitRoles(models.RoleAdmin, models.RoleSuperAdmin), h.HandleDelete)
}

// HandleList lists products scoped by the caller's role.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	params, err := listParams(c, h.validate)
	if err != nil {
		return validationError(c, err)
	}

	products, meta, err := h.service.List(middleware.CurrentUser(c), params)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not retrieve products", nil)
	}
	return response.Success(c, fiber.StatusOK, "Products retrieved successfully", fiber.Map{"products": products}, meta)
}

// HandleGet retrieves a single product; the route is public.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}

	product, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Product not found", nil)
		}
		log.Printf("Error getting product %s: %v", id, err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not retrieve product", nil)
	}
	return response.Success(c, fiber.StatusOK, "Product retrieved successfully", fiber.Map{"product": product}, nil)
}

// HandleCreate creates a product attributed to the actor's resolved
// owning admin. An uploaded file takes precedence over a body image URL.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	fields, err := bodyFieldMap(c)
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	input := services.ProductInput{
		Name:        stringField(fields, "name"),
		Image:       stringField(fields, "image"),
		Category:    stringField(fields, "category"),
		Description: stringField(fields, "description"),
		Colors:      coerceStringList(fields["colors"]),
		Sizes:       coerceStringList(fields["sizes"]),
	}
	price, priceGiven := coerceFloat(fields["price"])
	input.Price = price

	if fieldErrs := validateProductInput(input, priceGiven); len(fieldErrs) > 0 {
		return response.Error(c, fiber.StatusBadRequest, "Validation failed", fieldErrs)
	}

	if path, saveErr := h.saveUploadedImage(c); saveErr != nil {
		return response.Error(c, fiber.StatusBadRequest, "Could not store uploaded image", nil)
	} else if path != "" {
		input.Image = path
	}

	product, err := h.service.Create(middleware.CurrentUser(c), input)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not create product", nil)
	}
	return response.Success(c, fiber.StatusCreated, "Product created successfully", fiber.Map{"product": product}, nil)
}

// HandleUpdate merges provided fields onto the product; only the owning
// admin may update.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}

	fields, err := bodyFieldMap(c)
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	update := services.ProductUpdate{}
	if v, present := fields["name"]; present {
		s := coerceString(v)
		update.Name = &s
	}
	if v, present := fields["image"]; present {
		s := coerceString(v)
		update.Image = &s
	}
	if v, present := fields["category"]; present {
		s := coerceString(v)
		update.Category = &s
	}
	if v, present := fields["description"]; present {
		s := coerceString(v)
		update.Description = &s
	}
	if v, present := fields["status"]; present {
		s := coerceString(v)
		if s != models.ProductActive && s != models.ProductInactive && s != models.ProductDeleted {
			return response.Error(c, fiber.StatusBadRequest, "Validation failed", []response.FieldError{
				{Field: "status", Message: "Status must be active, inactive, or deleted"},
			})
		}
		update.Status = &s
	}
	if _, present := fields["colors"]; present {
		update.Colors = coerceStringList(fields["colors"])
	}
	if _, present := fields["sizes"]; present {
		update.Sizes = coerceStringList(fields["sizes"])
	}
	if price, given := coerceFloat(fields["price"]); given {
		if price < 0 {
			return response.Error(c, fiber.StatusBadRequest, "Validation failed", []response.FieldError{
				{Field: "price", Message: "Price cannot be negative"},
			})
		}
		update.Price = &price
	}

	if path, saveErr := h.saveUploadedImage(c); saveErr != nil {
		return response.Error(c, fiber.StatusBadRequest, "Could not store uploaded image", nil)
	} else if path != "" {
		update.Image = &path
	}

	product, err := h.service.Update(middleware.CurrentUser(c), id, update)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "Product not found", nil)
		case errors.Is(err, services.ErrForbidden):
			return response.Error(c, fiber.StatusForbidden, "You are not authorized to update this product", nil)
		}
		log.Printf("Error updating product %s: %v", id, err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not update product", nil)
	}
	return response.Success(c, fiber.StatusOK, "Product updated successfully", fiber.Map{"product": product}, nil)
}

type productStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive deleted"`
}

// HandleUpdateStatus sets the product status only.
func (h *ProductHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}

	var req productStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	product, err := h.service.UpdateStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Product not found", nil)
		}
		log.Printf("Error updating product %s status: %v", id, err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not update product status", nil)
	}
	return response.Success(c, fiber.StatusOK, "Product status updated successfully", fiber.Map{"product": product}, nil)
}

// HandleDelete soft-deletes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return invalidID(c)
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Product not found", nil)
		}
		log.Printf("Error deleting product %s: %v", id, err)
		return response.Error(c, fiber.StatusInternalServerError, "Could not delete product", nil)
	}
	return response.Success(c, fiber.StatusOK, "Product deleted successfully", nil, nil)
}

// saveUploadedImage stores a multipart "image" file under the upload dir
// and returns its public path, or "" when no file was sent.
func (h *ProductHandler) saveUploadedImage(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return "", nil
	}
	name := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func validateProductInput(input services.ProductInput, priceGiven bool) []response.FieldError {
	var errs []response.FieldError
	if input.Name == "" {
		errs = append(errs, response.FieldError{Field: "name", Message: "Product name is required"})
	}
	if input.Category == "" {
		errs = append(errs, response.FieldError{Field: "category", Message: "Category is required"})
	}
	if !priceGiven {
		errs = append(errs, response.FieldError{Field: "price", Message: "Price is required"})
	} else if input.Price < 0 {
		errs = append(errs, response.FieldError{Field: "price", Message: "Price cannot be negative"})
	}
	return errs
}

// bodyFieldMap extracts a raw field map from a JSON body or a
// multipart/urlencoded form, so the same tolerant coercion applies to
// both transport shapes.
func bodyFieldMap(c *fiber.Ctx) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	contentType := string(c.Request().Header.ContentType())
	if strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		if len(c.Body()) == 0 {
			return fields, nil
		}
		if err := json.Unmarshal(c.Body(), &fields); err != nil {
			return nil, err
		}
		return fields, nil
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for key, values := range form.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
		return fields, nil
	}

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		fields[string(key)] = string(value)
	})
	return fields, nil
}

func stringField(fields map[string]interface{}, key string) string {
	return coerceString(fields[key])
}

func coerceString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// coerceStringList accepts a JSON array, a JSON-encoded string or a
// plain string. A string that fails to parse as JSON becomes a
// single-element list; an empty string becomes an empty list.
func coerceStringList(v interface{}) []string {
	switch value := v.(type) {
	case nil:
		return nil
	case []string:
		return value
	case []interface{}:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if value == "" {
			return []string{}
		}
		var parsed []string
		if err := json.Unmarshal([]byte(value), &parsed); err == nil {
			return parsed
		}
		return []string{value}
	default:
		return nil
	}
}

// coerceFloat accepts a JSON number or a numeric string. The second
// return reports whether a usable value was present at all.
func coerceFloat(v interface{}) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case json.Number:
		f, err := value.Float64()
		return f, err == nil
	case string:
		if value == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(value, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
