package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// argsOf returns the tool arguments as a map.
func argsOf(request mcp.CallToolRequest) (map[string]interface{}, error) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid arguments format")
	}
	return argsMap, nil
}

// parseStringArg extracts a string argument. Required arguments must be
// present and non-empty.
func parseStringArg(argsMap map[string]interface{}, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}

	if required && str == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}

	return str, nil
}

// parseLimitArg reads an integer argument clamped to [1, max]. MCP sends
// numbers as float64; anything else yields defaultVal.
func parseLimitArg(argsMap map[string]interface{}, key string, defaultVal, max int) int {
	f, ok := argsMap[key].(float64)
	if !ok {
		return defaultVal
	}

	n := int(f)
	switch {
	case n < 1:
		return 1
	case n > max:
		return max
	}
	return n
}
