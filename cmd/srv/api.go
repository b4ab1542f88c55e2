package main

import (
	"fmt"
	"net/http"

	"github.com/questx-lab/quest-engine/internal/common"
	"github.com/questx-lab/quest-engine/internal/middleware"
	"github.com/questx-lab/quest-engine/pkg/prometheus"
	"github.com/questx-lab/quest-engine/pkg/router"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadStorage()
	s.loadRewardTransferer()
	s.loadTokenEngine()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()
	defer s.shutdown()

	cfg := xcontext.Configs(s.ctx).ApiServer
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.Port)
	if cfg.Cert != "" && cfg.Key != "" {
		return httpSrv.ListenAndServeTLS(cfg.Cert, cfg.Key)
	}

	return httpSrv.ListenAndServe()
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())
	s.router.Handle("/metrics", prometheus.NewHandler(common.PromCollectors()...))

	authVerifier := middleware.NewAuthVerifier(s.tokenEngine)

	// These following APIs need an authenticated requester.
	authRouter := s.router.Branch()
	authRouter.Before(authVerifier.Middleware())
	authRouter.Before(middleware.Authenticate())
	{
		// Quest API
		router.POST(authRouter, "/createQuest", s.questDomain.Create)
		router.POST(authRouter, "/startQuest", s.questDomain.Start)
		router.POST(authRouter, "/endQuest", s.questDomain.End)
		router.POST(authRouter, "/cancelQuest", s.questDomain.Cancel)

		// Task API
		router.POST(authRouter, "/createTask", s.taskDomain.Create)
		router.POST(authRouter, "/updateTask", s.taskDomain.Update)
		router.POST(authRouter, "/deleteTask", s.taskDomain.Delete)

		// Participation API
		router.POST(authRouter, "/joinQuest", s.participantDomain.Join)
		router.GET(authRouter, "/checkParticipationStatus", s.participantDomain.CheckParticipationStatus)
		router.POST(authRouter, "/submitTask", s.submissionDomain.SubmitTask)
		router.POST(authRouter, "/uploadSubmissionImage", s.submissionDomain.UploadSubmissionImage)
		router.GET(authRouter, "/getMySubmissions", s.submissionDomain.GetMySubmissions)

		// Winner API
		router.POST(authRouter, "/selectWinners", s.winnerDomain.SelectWinners)
		router.POST(authRouter, "/selectReplacementWinners", s.winnerDomain.SelectReplacementWinners)
		router.POST(authRouter, "/disqualifyParticipant", s.winnerDomain.DisqualifyParticipant)

		// Reward API
		router.POST(authRouter, "/distributeRewards", s.rewardDomain.DistributeRewards)
		router.GET(authRouter, "/getPayRewards", s.rewardDomain.GetPayRewards)
	}

	// These following APIs work without authentication but read the
	// requester if any.
	publicRouter := s.router.Branch()
	publicRouter.Before(authVerifier.Middleware())
	{
		router.GET(publicRouter, "/getQuest", s.questDomain.Get)
		router.GET(publicRouter, "/getListQuest", s.questDomain.GetList)
		router.GET(publicRouter, "/getQuestTasks", s.taskDomain.GetQuestTasks)
		router.GET(publicRouter, "/getQuestStats", s.statisticDomain.GetQuestStats)
		router.GET(publicRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
	}
}
