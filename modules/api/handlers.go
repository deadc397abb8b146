package api

import (
	"context"
	"encoding/json"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// HealthSource is a module whose health is reported by GET /health.
type HealthSource interface {
	Name() string
	Health(ctx context.Context) mono.HealthStatus
}

// handlers serves the HTTP routes.
type handlers struct {
	schema  graphql.Schema
	sources []HealthSource
}

// graphqlHandler handles POST / and POST /graphql.
// Execution errors are reported inside the GraphQL response with status 200;
// only a body that is not a GraphQL request is rejected with 400.
func (h *handlers) graphqlHandler(c *fiber.Ctx) error {
	var req GraphQLRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "query is required",
		})
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.UserContext(),
	})

	return c.JSON(result)
}

// healthHandler handles GET /health.
func (h *handlers) healthHandler(c *fiber.Ctx) error {
	resp := HealthResponse{
		Status:  "healthy",
		Modules: make(map[string]ModuleHealth, len(h.sources)),
	}

	for _, src := range h.sources {
		status := src.Health(c.UserContext())
		resp.Modules[src.Name()] = ModuleHealth{
			Healthy: status.Healthy,
			Message: status.Message,
			Details: status.Details,
		}
		if !status.Healthy {
			resp.Status = "unhealthy"
		}
	}

	if resp.Status != "healthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

// playgroundHandler handles GET / with an in-browser GraphQL client.
func (h *handlers) playgroundHandler(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(playgroundHTML)
}

const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>File Storage API</title>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css">
</head>
<body style="margin:0">
  <div id="graphiql" style="height:100vh"></div>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: window.location.origin + '/graphql' });
    ReactDOM.createRoot(document.getElementById('graphiql'))
      .render(React.createElement(GraphiQL, { fetcher }));
  </script>
</body>
</html>
`
