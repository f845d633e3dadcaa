package utils

import "github.com/gin-gonic/gin"

// ErrorResponse is the body of every failed request.
func ErrorResponse(message string) gin.H {
	return gin.H{"success": false, "error": message}
}

// SuccessMessage is the body of a mutation that returns no record.
func SuccessMessage(message string) gin.H {
	return gin.H{"success": true, "message": message}
}
