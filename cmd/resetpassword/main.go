package main

import (
	"context"
	"flag"
	"fmt"

	"wallet-ledger-go/internal/apperrors"
	"wallet-ledger-go/internal/common"
	"wallet-ledger-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	requestFlag := flag.String("request", "", "Email address to send a reset link to")
	tokenFlag := flag.String("token", "", "Reset token received by email")
	passwordFlag := flag.String("password", "", "New password, used with --token")
	flag.Parse()

	if (*requestFlag == "") == (*tokenFlag == "") {
		zap.L().Fatal("Exactly one of --request or --token is required")
	}
	if *tokenFlag != "" && *passwordFlag == "" {
		zap.L().Fatal("--password is required with --token")
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if *requestFlag != "" {
		result, err := services.Auth.RequestReset(ctx, *requestFlag)
		if err != nil {
			zap.L().Fatal("Reset request failed",
				zap.String("reason", apperrors.MessageOf(err)),
				zap.Error(err))
		}
		fmt.Println(result.Message)
		return
	}

	result, err := services.Auth.ConsumeReset(ctx, *tokenFlag, *passwordFlag)
	if err != nil {
		zap.L().Fatal("Password reset failed",
			zap.String("reason", apperrors.MessageOf(err)),
			zap.Error(err))
	}
	fmt.Println(result.Message)
}
