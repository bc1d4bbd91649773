package http

import (
	"net/http"
	"strconv"

	"github.com/ecomarket-tech/inventory-backend/internal/usecase"
	"github.com/ecomarket-tech/inventory-backend/pkg/e"
	"github.com/ecomarket-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogUC usecase.CatalogUC
	logger    logger.Logger
}

func NewCatalogHandler(catalogUC usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC, logger: logger}
}

// registerProduct
//
//	@Summary		Регистрация нового товара
//	@Description	Создает новый товар каталога с порогами остатка
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ProductReq	true	"Атрибуты товара"
//	@Success		201		{object}	ProductRes
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (c *CatalogHandler) registerProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductReq
	if err := decodeJSON(r, &req); err != nil {
		c.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	priceCents, err := parsePriceToCents(req.Price)
	if err != nil {
		c.logger.Warnf("%d invalid price %q: %s", http.StatusBadRequest, req.Price, err.Error())
		WriteError(w, err)
		return
	}

	product, err := c.catalogUC.RegisterProduct(r.Context(),
		usecase.NewRegisterProductReq(req.Name, req.Category, priceCents, req.ReorderThreshold, req.CriticalThreshold))
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductRes(product))
}

// updateProduct
//
//	@Summary	Обновление атрибутов товара
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int			true	"ID товара"
//	@Param		request	body		ProductReq	true	"Атрибуты товара"
//	@Success	200		{object}	ProductRes
//	@Failure	404		{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id} [put]
func (c *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req ProductReq
	if err := decodeJSON(r, &req); err != nil {
		c.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	priceCents, err := parsePriceToCents(req.Price)
	if err != nil {
		c.logger.Warnf("%d invalid price %q: %s", http.StatusBadRequest, req.Price, err.Error())
		WriteError(w, err)
		return
	}

	product, err := c.catalogUC.UpdateProduct(r.Context(), &usecase.UpdateProductReq{
		ID:                id,
		Name:              req.Name,
		Category:          req.Category,
		Price:             priceCents,
		ReorderThreshold:  req.ReorderThreshold,
		CriticalThreshold: req.CriticalThreshold,
	})
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductRes(product))
}

// archiveProduct
//
//	@Summary	Архивирование товара
//	@Description	Выводит товар из каталога, не удаляя запись и остатки
//	@Tags		products
//	@Produce	json
//	@Param		id	path	int	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id} [delete]
func (c *CatalogHandler) archiveProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := c.catalogUC.ArchiveProduct(r.Context(), id); err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listProducts
//
//	@Summary	Список товаров каталога
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	ProductRes
//	@Router		/products [get]
func (c *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalogUC.ListProducts(r.Context())
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]*ProductRes, 0, len(products))
	for i := range products {
		result = append(result, toProductRes(&products[i]))
	}

	WriteSuccess(w, http.StatusOK, result)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(name, e.ErrStatusBadRequest)
	}

	return id, nil
}
