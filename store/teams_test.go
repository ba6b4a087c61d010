package store

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTeam() NewTeam {
	return NewTeam{
		ProductName:        "wemake",
		ProductStage:       "mvp",
		TeamSize:           3,
		EquitySplit:        20,
		Roles:              "frontend, design",
		ProductDescription: "A home for makers",
		LeaderID:           2,
	}
}

func TestCreateTeamBounds(t *testing.T) {
	s, mock := newMockStore(t)
	cases := map[string]func(*NewTeam){
		"empty name":           func(n *NewTeam) { n.ProductName = " " },
		"name over 20":         func(n *NewTeam) { n.ProductName = strings.Repeat("가", 21) },
		"unknown stage":        func(n *NewTeam) { n.ProductStage = "launched" },
		"size zero":            func(n *NewTeam) { n.TeamSize = 0 },
		"size over 100":        func(n *NewTeam) { n.TeamSize = 101 },
		"equity zero":          func(n *NewTeam) { n.EquitySplit = 0 },
		"equity over 100":      func(n *NewTeam) { n.EquitySplit = 101 },
		"no roles":             func(n *NewTeam) { n.Roles = "" },
		"empty description":    func(n *NewTeam) { n.ProductDescription = "" },
		"description over 200": func(n *NewTeam) { n.ProductDescription = strings.Repeat("x", 201) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validTeam()
			mutate(&in)
			_, err := s.CreateTeam(context.Background(), in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTeamAcceptsEdges(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO `team`").
		WillReturnResult(sqlmock.NewResult(8, 1))

	in := validTeam()
	in.ProductName = strings.Repeat("가", 20)
	in.TeamSize = 100
	in.EquitySplit = 1
	in.ProductDescription = strings.Repeat("x", 200)
	team, err := s.CreateTeam(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, uint(8), team.ID)
	assert.Equal(t, uint(2), team.TeamLeaderID)
	require.NoError(t, mock.ExpectationsWereMet())
}
