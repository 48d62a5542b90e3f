package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Admin customer browsing: the customer list, one account and its events.

func (api *API) ListCustomers(c *gin.Context) {
	customers, err := api.customers.FetchCustomers(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	if customers == nil {
		customers = []Profile{}
	}
	c.JSON(http.StatusOK, customers)
}

func (api *API) GetCustomer(c *gin.Context) {
	customer, err := api.customers.FetchCustomerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (api *API) CustomerEvents(c *gin.Context) {
	events, err := api.customers.FetchCustomerEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if events == nil {
		events = []Event{}
	}
	c.JSON(http.StatusOK, events)
}
