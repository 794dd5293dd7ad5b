package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"realtime_chat_service/internal/media/domain"
	"realtime_chat_service/internal/media/repository"
	"realtime_chat_service/pkg/database"
	"realtime_chat_service/pkg/logger"

	"github.com/streadway/amqp"
)

// Consumer verify worker, checks uploaded objects really landed in MinIO
type Consumer struct {
	rabbitChannel *amqp.Channel
	minioClient   database.MinIOClientRepo
	voiceRepo     repository.VoiceRepo
	queueName     string
}

// NewConsumer create a Consumer
func NewConsumer(rabbitChannel *amqp.Channel, minioClient database.MinIOClientRepo, voiceRepo repository.VoiceRepo, queueName string) *Consumer {
	return &Consumer{
		rabbitChannel: rabbitChannel,
		minioClient:   minioClient,
		voiceRepo:     voiceRepo,
		queueName:     queueName,
	}
}

// StartConsumer consume verify jobs until the context is cancelled
func (c *Consumer) StartConsumer(ctx context.Context) {
	msgs, err := c.rabbitChannel.Consume(
		c.queueName,
		"", // consumer tag assigned by the broker
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatalf("cannot start consuming RabbitMQ messages: %v", err)
	}

	log.Println("Consumer started, waiting for verify jobs...")

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				log.Println("RabbitMQ consume channel closed")
				return
			}

			var job domain.VerifyJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Printf("unmarshal verify job failed: %v", err)
				if err := d.Nack(false, true); err != nil {
					log.Printf("Nack message failed: %v", err)
				}
				continue
			}

			log.Printf("received verify job: VoiceID=%d, ObjectKey=%s", job.VoiceID, job.ObjectKey)

			if err := processVerifyJob(ctx, job, c.minioClient, c.voiceRepo); err != nil {
				logger.Log.Errorf("process verify job failed:", err)
				time.Sleep(10 * time.Second)
				if err := d.Nack(false, true); err != nil {
					log.Printf("Nack message failed: %v", err)
				}
				continue
			}

			if err := d.Ack(false); err != nil {
				log.Printf("Ack message failed: %v", err)
			} else {
				log.Printf("verify job done, VoiceID: %d", job.VoiceID)
			}
		case <-ctx.Done():
			log.Println("Consumer received stop signal")
			return
		}
	}
}

// processVerifyJob stat the object in MinIO, compare sizes and flip the record to ready
func processVerifyJob(ctx context.Context, job domain.VerifyJob, mClient database.MinIOClientRepo, voiceRepo repository.VoiceRepo) error {
	info, err := mClient.StatObject(ctx, job.ObjectKey)
	if err != nil {
		return fmt.Errorf("stat object failed: %w", err)
	}
	if job.Size > 0 && info.Size != job.Size {
		return fmt.Errorf("object size mismatch: stored %d, expected %d", info.Size, job.Size)
	}

	voice, err := voiceRepo.GetByID(job.VoiceID)
	if err != nil {
		return fmt.Errorf("load voice record failed: %w", err)
	}
	voice.Status = string(domain.VoiceReady)
	if err := voiceRepo.Update(voice); err != nil {
		return fmt.Errorf("update voice status failed: %w", err)
	}
	log.Printf("voice VoiceID: %d marked ready", job.VoiceID)

	return nil
}
