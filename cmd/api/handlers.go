package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wms-platform/materials-service/internal/api/dto"
	"github.com/wms-platform/materials-service/internal/api/middleware"
	"github.com/wms-platform/materials-service/internal/application"
	"github.com/wms-platform/materials-service/internal/domain"
	"github.com/wms-platform/materials-service/pkg/logging"
)

// HTTP Handlers

func submitTransactionHandler(service *application.TransactionService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.SubmitTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		cmd := application.SubmitTransactionCommand{
			ActorID:           middleware.GetActorID(c),
			Type:              domain.TransactionType(req.Type),
			SourceWarehouseID: req.SourceWarehouseID,
			TargetWarehouseID: req.TargetWarehouseID,
			SupplierID:        req.SupplierID,
			Note:              req.Note,
		}
		for _, item := range req.Items {
			cmd.Items = append(cmd.Items, application.TransactionItemInput{
				ItemID:   item.ItemID,
				Quantity: item.Quantity,
				Price:    parseMoney(item.Price),
			})
		}
		for _, pending := range req.PendingItems {
			cmd.PendingItems = append(cmd.PendingItems, application.PendingItemInput{
				ItemID:     pending.ItemID,
				SKU:        pending.SKU,
				Name:       pending.Name,
				Category:   pending.Category,
				Unit:       pending.Unit,
				PriceIn:    parseMoney(pending.PriceIn),
				PriceOut:   parseMoney(pending.PriceOut),
				MinStock:   pending.MinStock,
				SupplierID: pending.SupplierID,
			})
		}

		tx, err := service.Submit(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, tx)
	}
}

func listTransactionsHandler(service *application.TransactionService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		filter := domain.TransactionFilter{
			Type:             domain.TransactionType(c.Query("type")),
			Status:           domain.TransactionStatus(c.Query("status")),
			WarehouseID:      c.Query("warehouseId"),
			RequesterID:      c.Query("requesterId"),
			RelatedRequestID: c.Query("relatedRequestId"),
		}

		transactions, err := service.List(c.Request.Context(), filter)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, dto.TransactionListResponse{
			Transactions: transactions,
			Total:        len(transactions),
		})
	}
}

func getTransactionHandler(service *application.TransactionService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		tx, err := service.Get(c.Request.Context(), c.Param("transactionId"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, tx)
	}
}

func decideTransactionHandler(service *application.TransactionService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.DecideTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		result, err := service.Decide(c.Request.Context(), application.DecideTransactionCommand{
			TransactionID: c.Param("transactionId"),
			ActorID:       middleware.GetActorID(c),
			Decision:      application.Decision(req.Decision),
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func approvePartialHandler(service *application.TransactionService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.ApprovePartialRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		result, err := service.ApprovePartial(c.Request.Context(), application.ApprovePartialCommand{
			TransactionID:   c.Param("transactionId"),
			ActorID:         middleware.GetActorID(c),
			SelectedItemIDs: req.SelectedItemIDs,
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func receiveTransactionHandler(service *application.TransactionService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.Receive(c.Request.Context(), application.ReceiveTransactionCommand{
			TransactionID: c.Param("transactionId"),
			ActorID:       middleware.GetActorID(c),
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func createRequestHandler(service *application.RequestService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.CreateRequestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		cmd := application.CreateRequestCommand{
			ActorID:           middleware.GetActorID(c),
			SiteWarehouseID:   req.SiteWarehouseID,
			SourceWarehouseID: req.SourceWarehouseID,
			Note:              req.Note,
			ExpectedDate:      req.ExpectedDate,
		}
		for _, item := range req.Items {
			cmd.Items = append(cmd.Items, application.RequestItemInput{
				ItemID:     item.ItemID,
				RequestQty: item.RequestQty,
			})
		}

		created, err := service.Create(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}

func listRequestsHandler(service *application.RequestService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		filter := domain.RequestFilter{
			Status:          domain.RequestStatus(c.Query("status")),
			SiteWarehouseID: c.Query("siteWarehouseId"),
			RequesterID:     c.Query("requesterId"),
		}

		requests, err := service.List(c.Request.Context(), filter)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, dto.RequestListResponse{
			Requests: requests,
			Total:    len(requests),
		})
	}
}

func getRequestHandler(service *application.RequestService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		req, err := service.Get(c.Request.Context(), c.Param("requestId"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, req)
	}
}

func decideRequestHandler(service *application.RequestService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.DecideRequestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		cmd := application.DecideRequestCommand{
			RequestID:         c.Param("requestId"),
			ActorID:           middleware.GetActorID(c),
			Decision:          application.Decision(req.Decision),
			SourceWarehouseID: req.SourceWarehouseID,
			Note:              req.Note,
			ConfirmExcess:     req.ConfirmExcess,
		}
		for _, line := range req.Lines {
			cmd.Lines = append(cmd.Lines, application.ApprovalLineInput{
				ItemID:      line.ItemID,
				ApprovedQty: line.ApprovedQty,
			})
		}

		result, err := service.Decide(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		// An approval exceeding requested quantities does not commit until
		// the approver confirms it
		if result.ConfirmationRequired {
			c.JSON(http.StatusUnprocessableEntity, result)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func shipRequestHandler(service *application.RequestService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.MarkInTransit(c.Request.Context(), application.MarkRequestInTransitCommand{
			RequestID: c.Param("requestId"),
			ActorID:   middleware.GetActorID(c),
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func completeRequestHandler(service *application.RequestService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.MarkCompleted(c.Request.Context(), application.MarkRequestCompletedCommand{
			RequestID: c.Param("requestId"),
			ActorID:   middleware.GetActorID(c),
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func createItemHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.CreateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		item, err := service.CreateItem(c.Request.Context(), application.CreateItemCommand{
			ActorID:    middleware.GetActorID(c),
			SKU:        req.SKU,
			Name:       req.Name,
			Category:   req.Category,
			Unit:       req.Unit,
			PriceIn:    parseMoney(req.PriceIn),
			PriceOut:   parseMoney(req.PriceOut),
			MinStock:   req.MinStock,
			SupplierID: req.SupplierID,
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

func listItemsHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		filter := domain.ItemFilter{
			Category:    c.Query("category"),
			SupplierID:  c.Query("supplierId"),
			WarehouseID: c.Query("warehouseId"),
			LowStock:    c.Query("lowStock") == "true",
		}

		items, err := service.ListItems(c.Request.Context(), filter)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, dto.ItemListResponse{
			Items: items,
			Total: len(items),
		})
	}
}

func getItemHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		item, err := service.GetItem(c.Request.Context(), c.Param("itemId"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

func updateItemHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		item, err := service.UpdateItem(c.Request.Context(), application.UpdateItemCommand{
			ActorID:    middleware.GetActorID(c),
			ItemID:     c.Param("itemId"),
			Name:       req.Name,
			Category:   req.Category,
			Unit:       req.Unit,
			PriceIn:    parseMoney(req.PriceIn),
			PriceOut:   parseMoney(req.PriceOut),
			MinStock:   req.MinStock,
			SupplierID: req.SupplierID,
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

func deleteItemHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		if err := service.DeleteItem(c.Request.Context(), middleware.GetActorID(c), c.Param("itemId")); err != nil {
			responder.RespondWithError(err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func createWarehouseHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.CreateWarehouseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		wh, err := service.CreateWarehouse(c.Request.Context(), application.CreateWarehouseCommand{
			ActorID: middleware.GetActorID(c),
			Name:    req.Name,
			Address: req.Address,
			Type:    domain.WarehouseType(req.Type),
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, wh)
	}
}

func listWarehousesHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		includeArchived := c.Query("includeArchived") == "true"

		warehouses, err := service.ListWarehouses(c.Request.Context(), includeArchived)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, dto.WarehouseListResponse{
			Warehouses: warehouses,
			Total:      len(warehouses),
		})
	}
}

func updateWarehouseHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req dto.UpdateWarehouseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		wh, err := service.UpdateWarehouse(c.Request.Context(), application.UpdateWarehouseCommand{
			ActorID:     middleware.GetActorID(c),
			WarehouseID: c.Param("warehouseId"),
			Name:        req.Name,
			Address:     req.Address,
			Type:        domain.WarehouseType(req.Type),
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, wh)
	}
}

func removeWarehouseHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		result, err := service.RemoveWarehouse(c.Request.Context(), middleware.GetActorID(c), c.Param("warehouseId"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func listUsersHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		users, err := service.ListUsers(c.Request.Context())
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, dto.UserListResponse{
			Users: users,
			Total: len(users),
		})
	}
}

func listActivityHandler(recorder *application.ActivityRecorder, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		limit := 100
		if limitStr := c.Query("limit"); limitStr != "" {
			if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
				limit = parsed
				if limit > 500 {
					limit = 500
				}
			}
		}

		activities, err := recorder.List(c.Request.Context(), limit)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, dto.ActivityListResponse{
			Activities: activities,
			Total:      len(activities),
		})
	}
}

func statsHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		stats, err := service.Stats(c.Request.Context())
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

// parseMoney converts a price string already checked by the money binding
// tag; empty strings mean zero
func parseMoney(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
