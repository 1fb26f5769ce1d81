package frontend

import (
	"regexp"
)

// serviceStartRegex matches service declarations at the start of a line.
// Captures the service name which must be a valid GraphQL identifier.
var serviceStartRegex = regexp.MustCompile(`(?m)^service\s+(\w+)\s*{`)

// servicePrefix marks object types that were rewritten from service blocks.
const servicePrefix = "Service_"

// preprocessGraphQL rewrites `service` blocks into valid GraphQL `type`
// definitions so the standard parser accepts the document.
func preprocessGraphQL(input string) string {
	return serviceStartRegex.ReplaceAllStringFunc(input, func(match string) string {
		serviceName := serviceStartRegex.FindStringSubmatch(match)[1]
		return `type ` + servicePrefix + serviceName + ` {`
	})
}
