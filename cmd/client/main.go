package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"brightsteps/internal/catalog"
	"brightsteps/internal/config"
	"brightsteps/internal/database"
	"brightsteps/internal/localstore"
	"brightsteps/internal/models"
	"brightsteps/internal/progress"
	"brightsteps/internal/remote"
	"brightsteps/internal/security"
	"brightsteps/internal/store"

	"github.com/joho/godotenv"
)

// app bundles the stores and repositories the subcommands operate on.
type app struct {
	sessions    *store.SessionStore
	settings    *store.SettingsStore
	children    *store.ChildStore
	auth        *remote.AuthRepository
	assessments *remote.AssessmentRepository
	milestones  *remote.MilestoneRepository
}

func main() {
	// Define subcommands
	signupCmd := flag.NewFlagSet("signup", flag.ExitOnError)
	signupEmail := signupCmd.String("email", "", "Account email (required)")
	signupPassword := signupCmd.String("password", "", "Account password (required)")
	signupName := signupCmd.String("name", "", "Display name (required)")

	signinCmd := flag.NewFlagSet("signin", flag.ExitOnError)
	signinEmail := signinCmd.String("email", "", "Account email (required)")
	signinPassword := signinCmd.String("password", "", "Account password (required)")

	childrenCmd := flag.NewFlagSet("children", flag.ExitOnError)
	childFirst := childrenCmd.String("first", "", "Child first name")
	childLast := childrenCmd.String("last", "", "Child last name")
	childDOB := childrenCmd.String("dob", "", "Date of birth (YYYY-MM-DD)")
	childGender := childrenCmd.String("gender", "", "Gender")
	childPremature := childrenCmd.Int("premature", 0, "Weeks premature")
	childID := childrenCmd.String("id", "", "Child id (for update/delete)")

	settingsCmd := flag.NewFlagSet("settings", flag.ExitOnError)
	settingsNotify := settingsCmd.String("notifications", "", "Enable notifications (true/false)")
	settingsDark := settingsCmd.String("dark", "", "Enable dark mode (true/false)")
	settingsFreq := settingsCmd.String("frequency", "", "Reminder frequency (weekly/biweekly/monthly)")

	assessCmd := flag.NewFlagSet("assess", flag.ExitOnError)
	assessChild := assessCmd.String("child", "", "Child id (required)")
	assessResponses := assessCmd.String("responses", "", "Comma-separated item=answer pairs, e.g. comm1=yes,gm1=sometimes (required)")
	assessNotes := assessCmd.String("notes", "", "Assessment notes")

	progressCmd := flag.NewFlagSet("progress", flag.ExitOnError)
	progressChild := progressCmd.String("child", "", "Child id (required)")

	oauthCmd := flag.NewFlagSet("oauth", flag.ExitOnError)
	oauthProvider := oauthCmd.String("provider", "", "OAuth provider: google or facebook (required)")
	oauthCode := oauthCmd.String("code", "", "Authorization code from the provider redirect")

	milestoneCmd := flag.NewFlagSet("milestone", flag.ExitOnError)
	milestoneChild := milestoneCmd.String("child", "", "Child id (required)")
	milestoneID := milestoneCmd.String("milestone", "", "Milestone id (omit to list the catalog for the child's age)")
	milestoneStatus := milestoneCmd.String("status", "", "Status: achieved, in_progress, or not_started")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load .env if present, then configuration from the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	a, cleanup := buildApp(cfg)
	defer cleanup()

	ctx := context.Background()
	a.sessions.Initialize(ctx)
	a.sessions.WatchSessionChanges(ctx)
	a.settings.Initialize(ctx)

	switch os.Args[1] {
	case "demo":
		a.sessions.EnterDemoMode(ctx)
		fmt.Println("Demo mode enabled. Data stays on this device.")

	case "signup":
		signupCmd.Parse(os.Args[2:])
		requireFlags(signupCmd, map[string]string{"email": *signupEmail, "password": *signupPassword, "name": *signupName})
		handleSignUp(ctx, a, *signupEmail, *signupPassword, *signupName)

	case "signin":
		signinCmd.Parse(os.Args[2:])
		requireFlags(signinCmd, map[string]string{"email": *signinEmail, "password": *signinPassword})
		if err := a.sessions.SignIn(ctx, *signinEmail, *signinPassword); err != nil {
			log.Fatalf("Sign in failed: %v", err)
		}
		st := a.sessions.State()
		fmt.Printf("Signed in as %s\n", st.User.Email)

	case "signout":
		a.sessions.SignOut(ctx)
		fmt.Println("Signed out")

	case "status":
		handleStatus(a)

	case "children":
		// The action comes before the flags, so split it off first: flag
		// parsing stops at the first non-flag argument.
		args := os.Args[2:]
		action := "list"
		if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
			action = args[0]
			args = args[1:]
		}
		childrenCmd.Parse(args)
		handleChildren(ctx, a, action, childInputFromFlags(*childFirst, *childLast, *childDOB, *childGender, *childPremature), *childID)

	case "settings":
		settingsCmd.Parse(os.Args[2:])
		handleSettings(ctx, a, *settingsNotify, *settingsDark, *settingsFreq)

	case "assess":
		assessCmd.Parse(os.Args[2:])
		requireFlags(assessCmd, map[string]string{"child": *assessChild, "responses": *assessResponses})
		handleAssess(ctx, a, *assessChild, *assessResponses, *assessNotes)

	case "progress":
		progressCmd.Parse(os.Args[2:])
		requireFlags(progressCmd, map[string]string{"child": *progressChild})
		handleProgress(ctx, a, *progressChild)

	case "oauth":
		oauthCmd.Parse(os.Args[2:])
		requireFlags(oauthCmd, map[string]string{"provider": *oauthProvider})
		handleOAuth(ctx, a, cfg, *oauthProvider, *oauthCode)

	case "milestone":
		milestoneCmd.Parse(os.Args[2:])
		requireFlags(milestoneCmd, map[string]string{"child": *milestoneChild})
		handleMilestone(ctx, a, *milestoneChild, *milestoneID, *milestoneStatus)

	default:
		printUsage()
		os.Exit(1)
	}
}

func buildApp(cfg *config.Config) (*app, func()) {
	local, err := localstore.Open(cfg.LocalStorePath)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}

	db, err := database.InitializeRemote(cfg.DatabaseType, cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)

	auth := remote.NewAuthRepository(db, local, []byte(cfg.JWTSigningKey), cfg.SessionDuration, cfg.RequireConfirmation)
	childRepo := remote.NewChildRepository(db)
	settingsRepo := remote.NewSettingsRepository(db)

	sessions := store.NewSessionStore(local, auth, logger)
	settings := store.NewSettingsStore(local, settingsRepo, sessions, logger)
	children := store.NewChildStore(local, childRepo, sessions, logger)

	a := &app{
		sessions:    sessions,
		settings:    settings,
		children:    children,
		auth:        auth,
		assessments: remote.NewAssessmentRepository(db),
		milestones:  remote.NewMilestoneRepository(db),
	}
	cleanup := func() {
		local.Close()
		db.Close()
	}
	return a, cleanup
}

func handleSignUp(ctx context.Context, a *app, email, password, name string) {
	if err := a.sessions.SignUp(ctx, email, password, name); err != nil {
		log.Fatalf("Sign up failed: %v", err)
	}
	st := a.sessions.State()
	if !st.IsAuthenticated {
		fmt.Println("Account created. Confirm your email address before signing in.")
		return
	}
	fmt.Printf("Account created and signed in as %s\n", st.User.Email)
}

func handleStatus(a *app) {
	st := a.sessions.State()
	switch {
	case st.IsDemoMode:
		fmt.Println("Mode: demo (on-device data only)")
	case st.IsAuthenticated:
		fmt.Printf("Mode: authenticated (%s)\n", st.User.Email)
		fmt.Printf("Session expires: %s\n", st.Session.ExpiresAt.Format(time.RFC3339))
	default:
		fmt.Println("Mode: signed out")
	}

	prefs := a.settings.Settings()
	fmt.Printf("Notifications: %t  Dark mode: %t  Reminders: %s\n",
		prefs.NotificationsEnabled, prefs.DarkMode, prefs.ReminderFrequency)
}

func childInputFromFlags(first, last, dob, gender string, premature int) models.ChildInput {
	input := models.ChildInput{
		FirstName:      first,
		LastName:       last,
		Gender:         gender,
		PrematureWeeks: premature,
	}
	if dob != "" {
		parsed, err := time.Parse("2006-01-02", dob)
		if err != nil {
			log.Fatalf("Invalid -dob value %q: expected YYYY-MM-DD", dob)
		}
		input.DateOfBirth = parsed
	}
	return input
}

func handleChildren(ctx context.Context, a *app, action string, input models.ChildInput, id string) {
	switch action {
	case "list":
		a.children.FetchChildren(ctx)
		st := a.children.State()
		if st.Error != "" {
			log.Fatalf("Failed to load children: %s", st.Error)
		}
		if len(st.Children) == 0 {
			fmt.Println("No children yet. Add one with: client children add -first <name> -dob <YYYY-MM-DD>")
			return
		}
		for _, c := range st.Children {
			fmt.Printf("%s  %s %s  born %s  (%d months)\n",
				c.ID, c.FirstName, c.LastName, c.DateOfBirth.Format("2006-01-02"), c.AgeInMonths(time.Now()))
		}

	case "add":
		child, err := a.children.AddChild(ctx, input)
		if err != nil {
			log.Fatalf("Failed to add child: %v", err)
		}
		fmt.Printf("Added %s %s (%s)\n", child.FirstName, child.LastName, child.ID)

	case "update":
		if id == "" {
			log.Fatal("Error: -id flag is required for update")
		}
		a.children.FetchChildren(ctx)
		patch := models.ChildPatch{}
		if input.FirstName != "" {
			patch.FirstName = &input.FirstName
		}
		if input.LastName != "" {
			patch.LastName = &input.LastName
		}
		if !input.DateOfBirth.IsZero() {
			patch.DateOfBirth = &input.DateOfBirth
		}
		if input.Gender != "" {
			patch.Gender = &input.Gender
		}
		child, err := a.children.UpdateChild(ctx, id, patch)
		if err != nil {
			log.Fatalf("Failed to update child: %v", err)
		}
		fmt.Printf("Updated %s %s (%s)\n", child.FirstName, child.LastName, child.ID)

	case "delete":
		if id == "" {
			log.Fatal("Error: -id flag is required for delete")
		}
		a.children.FetchChildren(ctx)
		if err := a.children.DeleteChild(ctx, id); err != nil {
			log.Fatalf("Failed to delete child: %v", err)
		}
		fmt.Printf("Deleted child %s\n", id)

	default:
		fmt.Printf("Unknown children action: %s\n", action)
		os.Exit(1)
	}
}

func handleSettings(ctx context.Context, a *app, notify, dark, freq string) {
	changed := false
	if notify != "" {
		a.settings.SetNotificationsEnabled(ctx, notify == "true")
		changed = true
	}
	if dark != "" {
		a.settings.SetDarkMode(ctx, dark == "true")
		changed = true
	}
	if freq != "" {
		a.settings.SetReminderFrequency(ctx, models.ReminderFrequency(freq))
		changed = true
	}

	if changed {
		// Give the background remote push a moment before the process exits.
		time.Sleep(500 * time.Millisecond)
	}

	prefs := a.settings.Settings()
	fmt.Printf("Notifications: %t\n", prefs.NotificationsEnabled)
	fmt.Printf("Dark mode:     %t\n", prefs.DarkMode)
	fmt.Printf("Reminders:     %s\n", prefs.ReminderFrequency)
	if st := a.settings.State(); st.SyncError != "" {
		fmt.Printf("Sync warning:  %s\n", st.SyncError)
	}
}

func handleAssess(ctx context.Context, a *app, childID, responsesArg, notes string) {
	child := lookupChild(ctx, a, childID)
	ageMonths := child.AgeInMonths(time.Now())
	if ageMonths <= 0 {
		log.Fatalf("Child %s has no usable age for assessment", childID)
	}

	responses, err := parseResponses(responsesArg)
	if err != nil {
		log.Fatalf("Invalid -responses value: %v", err)
	}

	scores := progress.ScoreResponses(responses, ageMonths)
	now := time.Now()
	assessment := &models.Assessment{
		ID:              security.NewID(),
		ChildID:         child.ID,
		AgeAtAssessment: ageMonths,
		Version:         1,
		Status:          models.AssessmentCompleted,
		StartedAt:       now,
		CompletedAt:     &now,
		OverallRisk:     progress.OverallRisk(scores),
		DomainScores:    scores,
		Notes:           notes,
	}
	if st := a.sessions.State(); st.User != nil {
		assessment.CompletedBy = st.User.ID
	}

	if err := a.assessments.SaveAssessment(ctx, assessment, responses); err != nil {
		log.Fatalf("Failed to save assessment: %v", err)
	}

	recommendations := progress.BuildRecommendations(assessment.ID, scores)
	if len(recommendations) > 0 {
		if err := a.assessments.SaveRecommendations(ctx, recommendations); err != nil {
			log.Fatalf("Failed to save recommendations: %v", err)
		}
	}

	fmt.Printf("Assessment saved for %s %s (age %d months)\n", child.FirstName, child.LastName, ageMonths)
	for _, s := range scores {
		pct := 0
		if s.Percentile != nil {
			pct = *s.Percentile
		}
		fmt.Printf("  %-16s %5.1f / %d  p%d  %s\n", s.Domain, s.RawScore, s.MaxScore, pct, s.RiskLevel)
	}
	fmt.Printf("Overall: %s\n", assessment.OverallRisk)
	for _, rec := range recommendations {
		fmt.Printf("[%s] %s\n  %s\n", rec.Priority, rec.Title, rec.Description)
	}
}

func handleProgress(ctx context.Context, a *app, childID string) {
	child := lookupChild(ctx, a, childID)

	recent, err := a.assessments.RecentCompletedAssessments(ctx, child.ID, 2)
	if err != nil {
		log.Fatalf("Failed to load assessments: %v", err)
	}
	if len(recent) == 0 {
		fmt.Println("No completed assessments yet. Run one with: client assess")
		return
	}

	latest := recent[0]
	previous := map[models.Domain]int{}
	if len(recent) > 1 {
		for _, s := range recent[1].DomainScores {
			if s.Percentile != nil {
				previous[s.Domain] = *s.Percentile
			}
		}
	}

	fmt.Printf("Progress for %s %s (assessed %s)\n",
		child.FirstName, child.LastName, latest.CompletedAt.Format("2006-01-02"))
	domainScores := map[models.Domain]int{}
	for _, entry := range progress.ComputeDomainProgress(latest.DomainScores, previous) {
		domainScores[entry.Domain] = entry.Percentile
		arrow := "="
		switch entry.Trend {
		case progress.TrendUp:
			arrow = "+"
		case progress.TrendDown:
			arrow = "-"
		}
		fmt.Printf("  %-16s p%-3d %s%d\n", entry.Domain, entry.Percentile, arrow, entry.Change)
	}

	tracked, err := a.milestones.TrackedProgress(ctx, child.ID)
	if err != nil {
		log.Fatalf("Failed to load milestone progress: %v", err)
	}

	summary := progress.DeriveMilestones(
		tracked, catalog.All(), domainScores,
		child.AgeInMonths(time.Now()), latest.CompletedAt, time.Now())

	fmt.Println("Recently achieved:")
	for _, m := range summary.Recent {
		fmt.Printf("  %s  %s (%s)\n", m.AchievedAt.Format("2006-01-02"), m.Milestone.Description, m.Milestone.ID)
	}
	fmt.Println("Coming up:")
	for _, m := range summary.Upcoming {
		fmt.Printf("  ~%d months  %s (%s)\n", m.AgeMonths, m.Description, m.ID)
	}
}

// handleOAuth runs the two halves of the authorization-code flow: without
// -code it prints the provider's consent URL, with -code it exchanges the
// code for a session.
func handleOAuth(ctx context.Context, a *app, cfg *config.Config, providerName, code string) {
	var provider remote.OAuthProvider
	switch providerName {
	case "google":
		provider = remote.GoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL)
	case "facebook":
		provider = remote.FacebookProvider(cfg.FacebookClientID, cfg.FacebookClientSecret, cfg.OAuthRedirectURL)
	default:
		log.Fatalf("Unknown provider %q: expected google or facebook", providerName)
	}
	if !provider.Configured() {
		log.Fatalf("Provider %s is not configured (client id/secret missing)", providerName)
	}

	if code == "" {
		state := security.GenerateSessionToken()
		fmt.Println("Open this URL, authorize, then re-run with -code <code>:")
		fmt.Println(provider.AuthCodeURL(state))
		return
	}

	session, err := a.auth.OAuthSignIn(ctx, provider, code)
	if err != nil {
		log.Fatalf("OAuth sign in failed: %v", err)
	}
	a.sessions.SetSession(session)
	fmt.Printf("Signed in as %s via %s\n", session.User.Email, providerName)
}

func handleMilestone(ctx context.Context, a *app, childID, milestoneID, statusArg string) {
	child := lookupChild(ctx, a, childID)

	// Without -milestone, list what the catalog holds for this child's age.
	if milestoneID == "" {
		age := child.AgeInMonths(time.Now())
		fmt.Printf("Milestones for %s (%d months):\n", child.FirstName, age)
		for _, m := range catalog.AtOrBelow(age) {
			fmt.Printf("  [current]  %-24s ~%d months  %s\n", m.ID, m.AgeMonths, m.Description)
		}
		for _, m := range catalog.Above(age) {
			fmt.Printf("  [ahead]    %-24s ~%d months  %s\n", m.ID, m.AgeMonths, m.Description)
		}
		return
	}
	if statusArg == "" {
		fmt.Println("Error: -status flag is required with -milestone")
		os.Exit(1)
	}

	milestone, ok := catalog.ByID(milestoneID)
	if !ok {
		log.Fatalf("Unknown milestone id: %s", milestoneID)
	}

	status := models.MilestoneStatus(statusArg)
	switch status {
	case models.MilestoneAchieved, models.MilestoneInProgress, models.MilestoneNotStarted:
	default:
		log.Fatalf("Invalid status %q: expected achieved, in_progress, or not_started", statusArg)
	}

	var achievedAt *time.Time
	if status == models.MilestoneAchieved {
		now := time.Now()
		achievedAt = &now
	}
	if err := a.milestones.UpsertProgress(ctx, milestone.ID, child.ID, status, achievedAt); err != nil {
		log.Fatalf("Failed to record milestone progress: %v", err)
	}
	fmt.Printf("Marked %q as %s for %s\n", milestone.Description, status, child.FirstName)
}

// lookupChild loads the child list through the store so demo and
// authenticated modes resolve ids the same way.
func lookupChild(ctx context.Context, a *app, id string) *models.Child {
	a.children.FetchChildren(ctx)
	st := a.children.State()
	if st.Error != "" {
		log.Fatalf("Failed to load children: %s", st.Error)
	}
	for i := range st.Children {
		if st.Children[i].ID == id {
			return &st.Children[i]
		}
	}
	log.Fatalf("No child with id %s", id)
	return nil
}

// parseResponses turns "comm1=yes,gm1=sometimes" into questionnaire
// responses.
func parseResponses(arg string) ([]models.QuestionnaireResponse, error) {
	var responses []models.QuestionnaireResponse
	for _, pair := range strings.Split(arg, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected item=answer, got %q", pair)
		}
		value := models.ResponseValue(parts[1])
		switch value {
		case models.ResponseYes, models.ResponseSometimes, models.ResponseNotYet:
		default:
			return nil, fmt.Errorf("unknown answer %q for item %s", parts[1], parts[0])
		}
		responses = append(responses, models.QuestionnaireResponse{ItemID: parts[0], Response: value})
	}
	if len(responses) == 0 {
		return nil, fmt.Errorf("no responses given")
	}
	return responses, nil
}

func requireFlags(fs *flag.FlagSet, values map[string]string) {
	for name, value := range values {
		if value == "" {
			fmt.Printf("Error: -%s flag is required\n", name)
			fs.PrintDefaults()
			os.Exit(1)
		}
	}
}

func printUsage() {
	fmt.Println("BrightSteps Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  client demo                         Enter demo mode (no account, on-device data)")
	fmt.Println("  client signup [options]             Create an account")
	fmt.Println("  client signin [options]             Sign in to an account")
	fmt.Println("  client oauth [options]              Sign in with Google or Facebook")
	fmt.Println("  client signout                      Sign out and clear local state")
	fmt.Println("  client status                       Show session mode and preferences")
	fmt.Println("  client children [action] [options]  Manage child profiles (list/add/update/delete)")
	fmt.Println("  client settings [options]           Show or change preferences")
	fmt.Println("  client assess [options]             Score and save a questionnaire")
	fmt.Println("  client progress [options]           Show domain trends and milestones")
	fmt.Println("  client milestone [options]          List milestones or record explicit progress")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  client demo")
	fmt.Println("  client children add -first Maya -dob 2024-06-01 -premature 4")
	fmt.Println("  client assess -child <id> -responses comm1=yes,comm2=sometimes,gm1=yes")
	fmt.Println("  client progress -child <id>")
	fmt.Println("  client milestone -child <id> -milestone ms-first-words -status achieved")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE            Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH            SQLite database path (default: ./brightsteps.db)")
	fmt.Println("  DB_URL             PostgreSQL or MySQL connection URL")
	fmt.Println("  LOCAL_STORE_PATH   On-device key-value store path (default: ./brightsteps_local.db)")
	fmt.Println("  JWT_SIGNING_KEY    Key used to mint access tokens")
}
