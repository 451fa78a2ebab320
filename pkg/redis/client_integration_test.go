package redis

import (
	"context"
	"testing"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type ClientTestSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    Client
	ctx       context.Context
}

func (s *ClientTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("Skipping integration test in short mode")
	}

	s.ctx = context.Background()

	container, err := tcredis.Run(s.ctx, "redis:7-alpine")
	require.NoError(s.T(), err)
	s.container = container

	endpoint, err := container.Endpoint(s.ctx, "")
	require.NoError(s.T(), err)

	cfg := DefaultConfig()
	cfg.Addrs = []string{endpoint}

	s.client = NewClient(logger.NewNop(), cfg)
	require.NoError(s.T(), s.client.Connect(s.ctx))
}

func (s *ClientTestSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Disconnect(s.ctx)
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *ClientTestSuite) TestPublishWithoutSubscribers() {
	received, err := s.client.Publish(s.ctx, "nobody:listens", "payload")
	s.NoError(err)
	s.Equal(int64(0), received)
}

func (s *ClientTestSuite) TestSubscribeReceivesPublished() {
	sub, err := s.client.Subscribe(s.ctx, "commands:order:submit")
	s.Require().NoError(err)
	defer sub.Close()

	received, err := s.client.Publish(s.ctx, "commands:order:submit", `{"orderId":"X"}`)
	s.Require().NoError(err)
	s.Equal(int64(1), received)

	select {
	case msg := <-sub.Messages():
		s.Equal("commands:order:submit", msg.Channel)
		s.Equal(`{"orderId":"X"}`, msg.Payload)
	case <-time.After(5 * time.Second):
		s.Fail("message not delivered")
	}
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}
