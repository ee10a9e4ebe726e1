package http

import (
	"github.com/campus-os/api/internal/infrastructure/dynamo"
	"github.com/campus-os/api/internal/infrastructure/gemini"
	jwtinfra "github.com/campus-os/api/internal/infrastructure/jwt"
	s3infra "github.com/campus-os/api/internal/infrastructure/s3"
	"github.com/campus-os/api/internal/infrastructure/smtp"
	"github.com/campus-os/api/internal/infrastructure/sns"
	totpinfra "github.com/campus-os/api/internal/infrastructure/totp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo        *dynamo.UserRepo
	NoticeRepo      *dynamo.NoticeRepo
	AttendanceRepo  *dynamo.AttendanceRepo
	ExamRepo        *dynamo.ExamRepo
	PlacementRepo   *dynamo.PlacementRepo
	GigRepo         *dynamo.GigRepo
	ReviewRepo      *dynamo.ReviewRepo
	ChatRoomRepo    *dynamo.ChatRoomRepo
	ChatMessageRepo *dynamo.ChatMessageRepo
	TaskRepo        *dynamo.TaskRepo

	S3Store         *s3infra.Store
	Mailer          smtp.Mailer
	NoticePublisher sns.NoticePublisher
	Gemini          *gemini.Client
	Codec           *jwtinfra.Codec
	TOTP            *totpinfra.Provisioner
}
