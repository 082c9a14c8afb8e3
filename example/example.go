// Package example is a small student registry wired entirely through
// go-mini-boot: an in-memory repository, a service and a REST controller.
package example

import (
	"github.com/SaiNageswarS/go-mini-boot/discovery"
	"github.com/SaiNageswarS/go-mini-boot/example/controller"
	"github.com/SaiNageswarS/go-mini-boot/example/repository"
	"github.com/SaiNageswarS/go-mini-boot/example/service"
)

// Root is the scan root covering every example component.
const Root = "example"

func Register(c *discovery.Catalog) *discovery.Catalog {
	c.Add(repository.Components()...)
	c.Add(service.Components()...)
	c.Add(controller.Components()...)
	return c
}

func Catalog() *discovery.Catalog {
	return Register(discovery.NewCatalog())
}
