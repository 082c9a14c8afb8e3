/*
Package go-mini-boot is a small component framework for Go: declare
controllers, services and beans, let the container wire them, and serve
the controllers over a minimal HTTP/1.x server.

go-mini-boot provides:
- A descriptor catalog scanned by namespace prefix
- A registry binding capabilities to qualified implementations
- Field injection with singleton and prototype scopes and cycle detection
- A path router with {param} placeholders
- A socket-level HTTP server returning JSON, one request per connection
- Prometheus metrics on a separate port

Quick Start:

	go install github.com/SaiNageswarS/go-mini-boot/cmd/go-mini-boot@latest
	go-mini-boot serve --port :8080

Package Import:

	import "github.com/SaiNageswarS/go-mini-boot/discovery"
	import "github.com/SaiNageswarS/go-mini-boot/server"
	import "github.com/SaiNageswarS/go-mini-boot/web"

Author: SaiNageswarS
License: Apache-2.0
*/
package boot
