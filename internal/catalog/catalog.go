// Package catalog is a sample product catalog API documented with swagdoc.
package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/schema"

	"github.com/vitalvas/swagdoc/explorer"
	"github.com/vitalvas/swagdoc/middleware"
	"github.com/vitalvas/swagdoc/swagger"
)

const defaultLimit = 20

// API serves the catalog endpoints.
type API struct {
	store    *Store
	validate *validator.Validate
	decoder  *schema.Decoder
	logger   *slog.Logger
}

func New(store *Store, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "schema"} {
			if name, _, _ := strings.Cut(f.Tag.Get(key), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &API{store: store, validate: v, decoder: decoder, logger: logger}
}

// Register adds the catalog endpoints to e.
func (a *API) Register(e *explorer.Explorer) {
	products := e.Group("Products").
		Prefix("/products").
		Produces("application/json").
		Response(http.StatusBadRequest, APIError{}).
		ResponseDescription(http.StatusBadRequest, "Invalid request")

	products.HandleFunc(http.MethodGet, "", a.listProducts).
		Name("List").
		Query(ProductQuery{}).
		Returns(Page[Product]{})

	products.HandleFunc(http.MethodGet, "/{id:uuid}", a.getProduct).
		Name("Get").
		PathParam("id", uuid.UUID{}, "Product identifier").
		Returns(Product{}).
		Response(http.StatusNotFound, APIError{})

	products.HandleFunc(http.MethodGet, "/by-sku/{sku:[A-Z0-9-]{3,32}}", a.getProductBySKU).
		Name("GetBySKU").
		Returns(Product{}).
		Response(http.StatusNotFound, APIError{})

	products.HandleFunc(http.MethodGet, "/search", a.searchProducts).
		Name("Search").
		Deprecated().
		QueryParam("q", "", true, "Text to look for in names and descriptions").
		Returns([]Product{})

	products.HandleFunc(http.MethodPost, "", a.createProduct).
		Name("Create").
		Consumes("application/json").
		Request(NewProduct{}).
		Response(http.StatusCreated, Product{}).
		ResponseHeader(http.StatusCreated, "Location", &swagger.Header{Type: "string", Description: "URL of the new product"}).
		Response(http.StatusConflict, APIError{}).
		ResponseDescription(http.StatusConflict, "SKU already in use")

	products.HandleFunc(http.MethodPut, "/{id:uuid}", a.updateProduct).
		Name("Update").
		Consumes("application/json").
		Request(NewProduct{}).
		Returns(Product{}).
		Response(http.StatusNotFound, APIError{}).
		Response(http.StatusConflict, APIError{})

	products.HandleFunc(http.MethodDelete, "/{id:uuid}", a.deleteProduct).
		Name("Delete").
		Response(http.StatusNoContent, nil).
		Response(http.StatusNotFound, APIError{})

	categories := e.Group("Categories").Prefix("/categories").Produces("application/json")

	categories.HandleFunc(http.MethodGet, "", a.listCategories).
		Name("List").
		Returns([]Category{})

	categories.HandleFunc(http.MethodGet, "/{id:int}", a.getCategory).
		Name("Get").
		Returns(Category{}).
		Response(http.StatusNotFound, APIError{})

	orders := e.Group("Orders").
		Prefix("/orders").
		Version("v2").
		Produces("application/json").
		Security(swagger.SecurityRequirement{"apiKey": {}})

	orders.HandleFunc(http.MethodPost, "", a.placeOrder).
		Name("Place").
		Consumes("application/json").
		Request(NewOrder{}).
		Response(http.StatusCreated, Order{}).
		Response(http.StatusBadRequest, APIError{}).
		Response(http.StatusUnprocessableEntity, APIError{}).
		ResponseDescription(http.StatusUnprocessableEntity, "Unknown product")

	orders.HandleFunc(http.MethodGet, "/{id:uuid}", a.getOrder).
		Name("Get").
		Returns(Order{}).
		Response(http.StatusNotFound, APIError{})
}

// Configure registers the polymorphic catalog types and the request id
// header filter with cfg.
func Configure(cfg *swagger.Config) error {
	polymorphic := []swagger.PolymorphicType{
		{
			Base:          reflect.TypeFor[Payment](),
			Discriminator: "method",
			SubTypes: []reflect.Type{
				reflect.TypeFor[CardPayment](),
				reflect.TypeFor[BankTransferPayment](),
			},
		},
		{
			Base:          reflect.TypeFor[Discount](),
			Discriminator: "type",
			SubTypes: []reflect.Type{
				reflect.TypeFor[PercentDiscount](),
				reflect.TypeFor[FixedDiscount](),
			},
		},
	}
	for _, p := range polymorphic {
		if err := cfg.Schema.RegisterPolymorphicType(p); err != nil {
			return err
		}
	}

	if cfg.SecurityDefinitions == nil {
		cfg.SecurityDefinitions = make(map[string]*swagger.SecurityScheme)
	}
	cfg.SecurityDefinitions["apiKey"] = &swagger.SecurityScheme{
		Type: "apiKey", Name: "X-API-Key", In: "header",
		Description: "Key required to place and read orders",
	}

	cfg.AddOperationFilter(RequestIDHeader)
	return nil
}

// RequestIDHeader documents the request id header accepted and echoed by
// the request id middleware on every operation.
func RequestIDHeader() swagger.OperationFilter {
	return swagger.OperationFilterFunc(func(op *swagger.Operation, _ *swagger.OperationFilterContext) error {
		op.Parameters = append(op.Parameters, &swagger.Parameter{
			Name:        middleware.DefaultRequestIDHeader,
			In:          swagger.InHeader,
			Type:        "string",
			Format:      "uuid",
			Description: "Request identifier, generated when absent",
		})
		for _, resp := range op.Responses {
			if resp.Headers == nil {
				resp.Headers = make(map[string]*swagger.Header)
			}
			resp.Headers[middleware.DefaultRequestIDHeader] = &swagger.Header{
				Type:        "string",
				Description: "Request identifier",
			}
		}
		return nil
	})
}

// listProducts returns a page of products matching the query.
func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	var q ProductQuery
	if err := a.decoder.Decode(&q, r.URL.Query()); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid query: "+err.Error(), nil)
		return
	}
	if !a.valid(w, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}
	a.writeJSON(w, http.StatusOK, a.store.ListProducts(q))
}

// getProduct returns one product.
func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := a.uuidParam(w, r, "id")
	if !ok {
		return
	}
	p, err := a.store.Product(id)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, p)
}

// getProductBySKU returns the product with a stock keeping unit.
func (a *API) getProductBySKU(w http.ResponseWriter, r *http.Request) {
	p, err := a.store.ProductBySKU(r.PathValue("sku"))
	if err != nil {
		a.writeStoreError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, p)
}

// searchProducts finds products by name or description.
//
// Deprecated: filter the product list instead.
func (a *API) searchProducts(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	if text == "" {
		a.writeError(w, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	a.writeJSON(w, http.StatusOK, a.store.SearchProducts(text))
}

// createProduct adds a product to the catalog.
func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	var in NewProduct
	if !a.decodeBody(w, r, &in) {
		return
	}

	p, err := a.store.CreateProduct(in)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}
	w.Header().Set("Location", "/products/"+p.ID.String())
	a.writeJSON(w, http.StatusCreated, p)
}

// updateProduct replaces the writable fields of a product.
func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := a.uuidParam(w, r, "id")
	if !ok {
		return
	}
	var in NewProduct
	if !a.decodeBody(w, r, &in) {
		return
	}
	p, err := a.store.UpdateProduct(id, in)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, p)
}

// deleteProduct removes a product from the catalog.
func (a *API) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := a.uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := a.store.DeleteProduct(id); err != nil {
		a.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listCategories returns the category tree.
func (a *API) listCategories(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, a.store.Categories())
}

// getCategory returns one category with its subcategories.
func (a *API) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid category id", nil)
		return
	}
	c, err := a.store.Category(id)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, c)
}

// placeOrder places an order for products of the catalog.
//
// The order total is computed from the current product prices.
func (a *API) placeOrder(w http.ResponseWriter, r *http.Request) {
	var in NewOrder
	if !a.decodeBody(w, r, &in) {
		return
	}
	if !a.valid(w, in.Payment) {
		return
	}

	o, err := a.store.PlaceOrder(in)
	if errors.Is(err, ErrNotFound) {
		a.writeError(w, http.StatusUnprocessableEntity, "order references an unknown product", nil)
		return
	}
	if err != nil {
		a.writeStoreError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, o)
}

// getOrder returns one order.
func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := a.uuidParam(w, r, "id")
	if !ok {
		return
	}
	o, err := a.store.Order(id)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, o)
}

func (a *API) uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (a *API) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid body: "+err.Error(), nil)
		return false
	}
	return a.valid(w, v)
}

// valid validates v and writes a 400 response listing the failed fields.
func (a *API) valid(w http.ResponseWriter, v any) bool {
	err := a.validate.Struct(v)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		a.writeError(w, http.StatusBadRequest, err.Error(), nil)
		return false
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		fields[i] = FieldError{Field: field, Rule: fe.Tag()}
	}
	a.writeError(w, http.StatusBadRequest, "validation failed", fields)
	return false
}

func (a *API) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		a.writeError(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, ErrDuplicateSKU):
		a.writeError(w, http.StatusConflict, "sku already in use", nil)
	default:
		a.logger.Error("catalog store failure", slog.Any("error", err))
		a.writeError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, msg string, fields []FieldError) {
	a.writeJSON(w, status, APIError{Message: msg, Fields: fields})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to write response", slog.Any("error", err))
	}
}
