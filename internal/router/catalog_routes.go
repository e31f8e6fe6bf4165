package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/handler"
	"github.com/iliyamo/land-looker/internal/policy"
)

// registerCatalog mounts properties and locations.  Listing and showing
// are public; search and sort are for buyers; every write is for workers.
func registerCatalog(g *echo.Group, p *handler.PropertyHandler, l *handler.LocationHandler, m chains) {
	// static segments win over :id in echo's router
	g.GET("/properties/search", p.Search, m.read(policy.PropertySearch)...)
	g.GET("/properties/sort", p.Sort, m.read(policy.PropertySort)...)

	g.GET("/properties", p.List, m.public()...)
	g.GET("/properties/:id", p.Get, m.public()...)
	g.POST("/properties", p.Create, m.write(policy.PropertyCreate)...)
	g.PUT("/properties/:id", p.Update, m.write(policy.PropertyUpdate)...)
	g.PATCH("/properties/:id/price", p.UpdatePrice, m.write(policy.PropertyUpdatePrice)...)
	g.DELETE("/properties/:id", p.Delete, m.write(policy.PropertyDelete)...)

	g.GET("/locations", l.List, m.public()...)
	g.POST("/locations", l.Create, m.write(policy.LocationCreate)...)
	g.DELETE("/locations/:id", l.Delete, m.write(policy.LocationDelete)...)
}
