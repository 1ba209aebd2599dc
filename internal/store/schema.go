package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions, migrated with ent's schema package. Skill insertion order is
// kept in skills.position and prerequisite order in skill_prerequisites.position.
// Timestamps are stored as fixed-width text so they sort lexically.
var (
	SkillsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "difficulty", Type: field.TypeInt},
		{Name: "content", Type: field.TypeString, Default: ""},
		{Name: "position", Type: field.TypeInt},
	}
	SkillsTable = &schema.Table{
		Name:       "skills",
		Columns:    SkillsColumns,
		PrimaryKey: []*schema.Column{SkillsColumns[0]},
		Annotation: &entsql.Annotation{
			Checks: map[string]string{"skill_difficulty": "difficulty BETWEEN 1 AND 10"},
		},
	}

	SkillPrerequisitesColumns = []*schema.Column{
		{Name: "skill_id", Type: field.TypeString},
		{Name: "prerequisite_id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
	}
	SkillPrerequisitesTable = &schema.Table{
		Name:       "skill_prerequisites",
		Columns:    SkillPrerequisitesColumns,
		PrimaryKey: []*schema.Column{SkillPrerequisitesColumns[0], SkillPrerequisitesColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "skill_prerequisites_skill",
				Columns:    []*schema.Column{SkillPrerequisitesColumns[0]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "skill_prerequisites_prerequisite",
				Columns:    []*schema.Column{SkillPrerequisitesColumns[1]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
	}

	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "role", Type: field.TypeString, Default: RoleStudent},
		{Name: "status", Type: field.TypeString, Default: StatusActive},
		{Name: "skill_level", Type: field.TypeString, Default: "Beginner"},
		{Name: "avatar", Type: field.TypeString, Default: ""},
		{Name: "joined_at", Type: field.TypeString},
	}
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	ProgressColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "skill_id", Type: field.TypeString},
		{Name: "status", Type: field.TypeString},
		{Name: "mastery", Type: field.TypeFloat64, Default: 0},
		{Name: "last_accessed", Type: field.TypeString},
	}
	ProgressTable = &schema.Table{
		Name:       "progress",
		Columns:    ProgressColumns,
		PrimaryKey: []*schema.Column{ProgressColumns[0], ProgressColumns[1]},
		Annotation: &entsql.Annotation{
			Checks: map[string]string{
				"progress_status":  "status IN ('locked', 'in-progress', 'completed')",
				"progress_mastery": "mastery BETWEEN 0 AND 100",
			},
		},
	}

	QuizzesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "difficulty", Type: field.TypeString, Default: "easy"},
		{Name: "skill_id", Type: field.TypeString, Nullable: true},
		{Name: "questions", Type: field.TypeString, Default: "[]"},
		{Name: "points", Type: field.TypeInt, Default: 100},
	}
	QuizzesTable = &schema.Table{
		Name:       "quizzes",
		Columns:    QuizzesColumns,
		PrimaryKey: []*schema.Column{QuizzesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quizzes_skill",
				Columns:    []*schema.Column{QuizzesColumns[4]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
	}

	// Attempts outlive their quiz but not their user.
	QuizAttemptsColumns = []*schema.Column{
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "user_id", Type: field.TypeString},
		{Name: "quiz_id", Type: field.TypeString},
		{Name: "score", Type: field.TypeFloat64},
		{Name: "time_spent", Type: field.TypeInt, Default: 0},
		{Name: "tier", Type: field.TypeString},
		{Name: "feedback", Type: field.TypeString, Default: ""},
		{Name: "attempted_at", Type: field.TypeString},
	}
	QuizAttemptsTable = &schema.Table{
		Name:       "quiz_attempts",
		Columns:    QuizAttemptsColumns,
		PrimaryKey: []*schema.Column{QuizAttemptsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quiz_attempts_user",
				Columns:    []*schema.Column{QuizAttemptsColumns[1]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "idx_quiz_attempts_user", Columns: []*schema.Column{QuizAttemptsColumns[1]}},
		},
	}

	PostsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "author", Type: field.TypeString},
		{Name: "role", Type: field.TypeString, Default: ""},
		{Name: "avatar", Type: field.TypeString, Default: ""},
		{Name: "content", Type: field.TypeString},
		{Name: "likes", Type: field.TypeInt, Default: 0},
		{Name: "comments", Type: field.TypeInt, Default: 0},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "color", Type: field.TypeString, Default: ""},
		{Name: "ai_reply", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeString},
	}
	PostsTable = &schema.Table{
		Name:       "posts",
		Columns:    PostsColumns,
		PrimaryKey: []*schema.Column{PostsColumns[0]},
	}

	CirclesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "members", Type: field.TypeInt, Default: 0},
		{Name: "icon", Type: field.TypeString, Default: ""},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "suggested", Type: field.TypeBool, Default: false},
	}
	CirclesTable = &schema.Table{
		Name:       "circles",
		Columns:    CirclesColumns,
		PrimaryKey: []*schema.Column{CirclesColumns[0]},
	}

	// Memberships reference circles by name and survive circle deletion.
	UserCirclesColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "circle_name", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
	}
	UserCirclesTable = &schema.Table{
		Name:       "user_circles",
		Columns:    UserCirclesColumns,
		PrimaryKey: []*schema.Column{UserCirclesColumns[0], UserCirclesColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "user_circles_user",
				Columns:    []*schema.Column{UserCirclesColumns[0]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	BooksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "author", Type: field.TypeString, Default: ""},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "rating", Type: field.TypeFloat64, Default: 0},
		{Name: "pages", Type: field.TypeInt, Default: 0},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "image", Type: field.TypeString, Default: ""},
		{Name: "content", Type: field.TypeString, Default: ""},
	}
	BooksTable = &schema.Table{
		Name:       "books",
		Columns:    BooksColumns,
		PrimaryKey: []*schema.Column{BooksColumns[0]},
	}

	LLMRequestEventsColumns = []*schema.Column{
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeString},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString, Default: ""},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Default: ""},
		{Name: "response_body", Type: field.TypeString, Default: ""},
	}
	LLMRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "idx_llm_request_events_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[4]}},
		},
	}

	GlobalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	GlobalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    GlobalSequenceColumns,
		PrimaryKey: []*schema.Column{GlobalSequenceColumns[0]},
		Annotation: &entsql.Annotation{
			Checks: map[string]string{"global_sequence_singleton": "id = 1"},
		},
	}

	// Tables holds every table in creation order.
	Tables = []*schema.Table{
		SkillsTable,
		SkillPrerequisitesTable,
		UsersTable,
		ProgressTable,
		QuizzesTable,
		QuizAttemptsTable,
		PostsTable,
		CirclesTable,
		UserCirclesTable,
		BooksTable,
		LLMRequestEventsTable,
		GlobalSequenceTable,
	}
)

func init() {
	SkillPrerequisitesTable.ForeignKeys[0].RefTable = SkillsTable
	SkillPrerequisitesTable.ForeignKeys[1].RefTable = SkillsTable
	QuizzesTable.ForeignKeys[0].RefTable = SkillsTable
	QuizAttemptsTable.ForeignKeys[0].RefTable = UsersTable
	UserCirclesTable.ForeignKeys[0].RefTable = UsersTable
}

// migrate creates missing tables, columns and indexes. Columns are never dropped.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv, schema.WithForeignKeys(true))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
