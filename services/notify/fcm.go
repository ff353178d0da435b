package notify

import (
	"context"
	"fmt"
	"time"

	"homely/models"
	"homely/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMNotificationService delivers pushes over Firebase Cloud Messaging to
// per-user topics. The surrounding app subscribes each signed-in device to
// its owner's topic.
type FCMNotificationService struct{}

// NewFCMNotificationService returns the production NotificationService.
func NewFCMNotificationService() *FCMNotificationService {
	return &FCMNotificationService{}
}

// NotifyBidPlaced tells the request's client a new offer arrived.
func (s *FCMNotificationService) NotifyBidPlaced(req *models.ServiceRequest, bid models.Bid) {
	title := "New offer on your request"
	body := fmt.Sprintf("%s offered %.2f for %s", bid.ProviderName, bid.OfferAmount, req.ServiceName)
	s.send(req.ClientID, title, body, map[string]string{
		"requestId":  req.ID,
		"providerId": bid.ProviderID,
		"event":      "bid_placed",
	})
}

// NotifyBidAccepted tells the winning provider their offer was accepted.
func (s *FCMNotificationService) NotifyBidAccepted(req *models.ServiceRequest, bid models.Bid) {
	title := "Your offer was accepted"
	body := fmt.Sprintf("Your %.2f offer for %s is now a confirmed booking", bid.OfferAmount, req.ServiceName)
	s.send(bid.ProviderID, title, body, map[string]string{
		"requestId": req.ID,
		"event":     "bid_accepted",
	})
}

func (s *FCMNotificationService) send(recipientID, title, body string, data map[string]string) {
	logger := utils.GetLogger()
	if utils.FCMClient == nil {
		logger.Debug("FCM client not initialized, dropping push", zap.String("recipient", recipientID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := &messaging.Message{
		Topic: "user-" + recipientID,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		logger.Warn("failed to send push notification",
			zap.String("recipient", recipientID), zap.Error(err))
	}
}
