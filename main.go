/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-09-05 11:20:14
 * @LastEditTime: 2026-02-22 15:46:02
 * @LastEditors: 安知鱼
 */
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/anzhiyu-c/aurora-app/cmd/server"
)

func main() {
	// 调用位于 cmd/server 包中的 NewApp 函数来构建整个应用
	app, cleanup, err := server.NewApp()
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}
	defer cleanup()

	// 收到终止信号后优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("收到终止信号，开始关停...")
		app.Stop()
	}()

	if err := app.Run(); err != nil {
		log.Fatalf("应用启动失败: %v", err)
	}
	log.Println("应用已退出。")
}
