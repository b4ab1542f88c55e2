package main

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/questx-lab/quest-engine/config"
	"github.com/questx-lab/quest-engine/internal/client"
	"github.com/questx-lab/quest-engine/internal/common"
	"github.com/questx-lab/quest-engine/internal/domain"
	"github.com/questx-lab/quest-engine/internal/domain/statistic"
	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/internal/repository"
	"github.com/questx-lab/quest-engine/migration"
	"github.com/questx-lab/quest-engine/pkg/authenticator"
	"github.com/questx-lab/quest-engine/pkg/idutil"
	"github.com/questx-lab/quest-engine/pkg/kafka"
	"github.com/questx-lab/quest-engine/pkg/logger"
	"github.com/questx-lab/quest-engine/pkg/pubsub"
	"github.com/questx-lab/quest-engine/pkg/router"
	"github.com/questx-lab/quest-engine/pkg/storage"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"github.com/questx-lab/quest-engine/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	questRepo       repository.QuestRepository
	taskRepo        repository.TaskRepository
	participantRepo repository.ParticipantRepository
	submissionRepo  repository.SubmissionRepository
	payRewardRepo   repository.PayRewardRepository

	questDomain       domain.QuestDomain
	taskDomain        domain.TaskDomain
	participantDomain domain.ParticipantDomain
	submissionDomain  domain.SubmissionDomain
	winnerDomain      domain.WinnerDomain
	rewardDomain      domain.RewardDomain
	statisticDomain   domain.StatisticDomain

	redisClient      xredis.Client
	publisher        pubsub.Publisher
	stopPublisher    func(context.Context) error
	storage          storage.Storage
	rewardTransferer client.RewardTransferer
	tokenEngine      authenticator.TokenEngine[model.AccessToken]

	router *router.Router
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := migration.Migrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx, xcontext.Configs(s.ctx).Redis)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka

	publisher, err := kafka.NewPublisher(cfg.ClientID, strings.Split(cfg.Addr, ","))
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
	s.stopPublisher = publisher.Stop
}

func (s *srv) loadStorage() {
	var err error
	s.storage, err = storage.NewS3Storage(xcontext.Configs(s.ctx).Storage)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRewardTransferer() {
	rpcClient, err := rpc.DialContext(s.ctx, xcontext.Configs(s.ctx).Reward.RPCEndpoint)
	if err != nil {
		panic(err)
	}

	s.rewardTransferer = client.NewRewardTransferer(rpcClient)
}

func (s *srv) loadTokenEngine() {
	cfg := xcontext.Configs(s.ctx).Auth
	s.tokenEngine = authenticator.NewTokenEngine[model.AccessToken](cfg.TokenSecret, cfg.TokenExpiration)
}

func (s *srv) loadRepos() {
	s.questRepo = repository.NewQuestRepository()
	s.taskRepo = repository.NewTaskRepository()
	s.participantRepo = repository.NewParticipantRepository()
	s.submissionRepo = repository.NewSubmissionRepository()
	s.payRewardRepo = repository.NewPayRewardRepository()
}

func (s *srv) loadDomains() {
	idGenerator, err := idutil.NewGenerator(xcontext.Configs(s.ctx).Quest.NodeID)
	if err != nil {
		panic(err)
	}

	roleVerifier := common.NewQuestRoleVerifier()
	publisher := domain.NewEventPublisher(s.publisher, idGenerator)
	leaderboard := statistic.New(s.participantRepo, s.redisClient)

	s.questDomain = domain.NewQuestDomain(s.questRepo, s.taskRepo, roleVerifier)
	s.taskDomain = domain.NewTaskDomain(
		s.questRepo, s.taskRepo, s.participantRepo, s.submissionRepo, roleVerifier, leaderboard)
	s.participantDomain = domain.NewParticipantDomain(
		s.questRepo, s.taskRepo, s.participantRepo, publisher)
	s.submissionDomain = domain.NewSubmissionDomain(
		s.questRepo, s.taskRepo, s.participantRepo, s.submissionRepo, s.storage, leaderboard, publisher)
	s.winnerDomain = domain.NewWinnerDomain(
		s.questRepo, s.participantRepo, roleVerifier, leaderboard, publisher)
	s.rewardDomain = domain.NewRewardDomain(
		s.questRepo, s.participantRepo, s.payRewardRepo, roleVerifier, s.rewardTransferer, publisher)
	s.statisticDomain = domain.NewStatisticDomain(
		s.questRepo, s.taskRepo, s.participantRepo, s.submissionRepo, leaderboard)
}

// shutdown releases the connections opened by the load functions.
func (s *srv) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.stopPublisher != nil {
		if err := s.stopPublisher(ctx); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot stop publisher: %v", err)
		}
	}

	if s.rewardTransferer != nil {
		s.rewardTransferer.Close()
	}
}
