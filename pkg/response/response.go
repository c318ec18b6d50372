/*
 * @Description: 统一的 API 响应结构
 * @Author: 安知鱼
 * @Date: 2025-09-02 11:20:45
 * @LastEditTime: 2025-11-06 14:12:30
 * @LastEditors: 安知鱼
 */
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 是统一的API返回结构体
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Fail 失败响应
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// FailWithData 失败响应，同时携带附加数据。
// 用于校验失败时把违反的全部规则一并返回给调用方。
func FailWithData(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}
