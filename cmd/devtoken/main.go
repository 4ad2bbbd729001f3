package main // Issues access tokens for local development

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/stay-reservation/internal/config"
	"github.com/iliyamo/stay-reservation/internal/model"
	"github.com/iliyamo/stay-reservation/internal/utils"
)

func main() {
	config.LoadDotEnv()

	id := flag.Uint64("id", 0, "user id placed in the sub claim")
	role := flag.String("role", string(model.RoleGuest), "GUEST, OWNER or ADMIN")
	ttl := flag.Int("ttl", 60, "lifetime in minutes")
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "HS256 signing secret (default $JWT_SECRET)")
	flag.Parse()

	log := logrus.New()
	r := model.Role(strings.ToUpper(*role))
	switch r {
	case model.RoleGuest, model.RoleOwner, model.RoleAdmin:
	default:
		log.Fatalf("unknown role %q", *role)
	}
	if *id == 0 {
		log.Fatal("-id is required")
	}
	at, err := utils.NewAccessToken(*secret, *id, string(r), *ttl)
	if err != nil {
		log.WithError(err).Fatal("cannot sign token")
	}
	fmt.Println(at.Token)
	log.WithFields(logrus.Fields{"sub": *id, "role": r, "exp": at.Exp}).Info("token issued")
}
