package cmd

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/oklog/run"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter"
	"golang.org/x/net/http2"

	cmdcommon "boscoin.io/roster/cmd/roster/common"
	"boscoin.io/roster/lib/common"
	"boscoin.io/roster/lib/common/keypair"
	"boscoin.io/roster/lib/ledger"
	"boscoin.io/roster/lib/metrics"
	"boscoin.io/roster/lib/network"
	"boscoin.io/roster/lib/node/runner"
	"boscoin.io/roster/lib/node/runner/api"
	"boscoin.io/roster/lib/roster"
	"boscoin.io/roster/lib/storage"
)

const (
	defaultNetwork  string      = "https"
	defaultPort     int         = 12345
	defaultHost     string      = "0.0.0.0"
	defaultLogLevel logging.Lvl = logging.LvlInfo
)

var (
	flagNetworkID      string = common.GetENVValue("ROSTER_NETWORK_ID", "")
	flagLogLevel       string = common.GetENVValue("ROSTER_LOG_LEVEL", defaultLogLevel.String())
	flagLogOutput      string = common.GetENVValue("ROSTER_LOG_OUTPUT", "")
	flagVerbose        bool   = common.GetENVValue("ROSTER_VERBOSE", "0") == "1"
	flagEndpointString string = common.GetENVValue(
		"ROSTER_ENDPOINT",
		fmt.Sprintf("%s://%s:%d", defaultNetwork, defaultHost, defaultPort),
	)
	flagStorageConfigString string
	flagTLSCertFile         string = common.GetENVValue("ROSTER_TLS_CERT", "roster.crt")
	flagTLSKeyFile          string = common.GetENVValue("ROSTER_TLS_KEY", "roster.key")
	flagBlockTime           string = common.GetENVValue("ROSTER_BLOCK_TIME", common.DefaultBlockTime.String())
	flagTreasury            string = common.GetENVValue("ROSTER_TREASURY", "")
	flagAdmin               string = common.GetENVValue("ROSTER_ADMIN", "")
	flagRosterDeposit       string = common.GetENVValue("ROSTER_ROSTER_DEPOSIT", common.DefaultRosterDeposit.String())
	flagNominationDeposit   string = common.GetENVValue("ROSTER_NOMINATION_DEPOSIT", common.DefaultNominationDeposit.String())
	flagMembershipDues      string = common.GetENVValue("ROSTER_MEMBERSHIP_DUES", common.DefaultMembershipDues.String())
	flagProposalDeposit     string = common.GetENVValue("ROSTER_PROPOSAL_DEPOSIT", common.DefaultProposalDeposit.String())
	flagNominationPeriod    string = common.GetENVValue("ROSTER_NOMINATION_PERIOD", common.DefaultNominationVotingPeriod.String())
	flagSecondPeriod        string = common.GetENVValue("ROSTER_SECOND_PERIOD", common.DefaultAwaitingSecondPeriod.String())
	flagExpulsionPeriod     string = common.GetENVValue("ROSTER_EXPULSION_PERIOD", common.DefaultExpulsionVotingPeriod.String())
	flagLockoutPeriod       string = common.GetENVValue("ROSTER_LOCKOUT_PERIOD", common.DefaultLockoutPeriod.String())
	flagSecondThreshold     string = common.GetENVValue("ROSTER_SECOND_THRESHOLD", strconv.Itoa(common.DefaultSecondThreshold))
	flagHTTPCacheAdapter    string = common.GetENVValue("ROSTER_HTTP_CACHE_ADAPTER", common.HTTPCacheMemoryAdapterName)
	flagHTTPCachePoolSize   string = common.GetENVValue("ROSTER_HTTP_CACHE_POOL_SIZE", strconv.Itoa(common.DefaultHTTPCachePoolSize))
	flagHTTPCacheRedisAddrs string = common.GetENVValue("ROSTER_HTTP_CACHE_REDIS_ADDRS", "")
	flagHTTPCacheExpire     string = common.GetENVValue("ROSTER_HTTP_CACHE_EXPIRE", common.DefaultHTTPCacheExpire.String())
	flagRateLimitAPI        cmdcommon.ListFlags
	flagGenesis             cmdcommon.ListFlags
	flagDebugPProf          bool = common.GetENVValue("ROSTER_DEBUG_PPROF", "0") == "1"
	flagDebugJSONRPC        bool = common.GetENVValue("ROSTER_DEBUG_JSONRPC", "0") == "1"
)

var (
	nodeCmd *cobra.Command

	nodeEndpoint    *url.URL
	storageConfig   *storage.Config
	conf            common.Config
	genesisAccounts []runner.GenesisAccount
	logLevel        logging.Lvl
	log             logging.Logger = logging.New("module", "main")
)

func init() {
	var err error

	nodeCmd = &cobra.Command{
		Use:   "node",
		Short: "Run roster node",
		Run: func(c *cobra.Command, args []string) {
			parseFlagsNode()

			if err := runNode(); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(1)
			}
		},
	}

	var currentDirectory string
	if currentDirectory, err = os.Getwd(); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}
	if currentDirectory, err = filepath.Abs(currentDirectory); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}
	flagStorageConfigString = common.GetENVValue("ROSTER_STORAGE", fmt.Sprintf("file://%s/db", currentDirectory))

	if v := os.Getenv("ROSTER_RATE_LIMIT_API"); len(v) > 0 {
		flagRateLimitAPI = strings.Fields(v)
	}
	if v := os.Getenv("ROSTER_GENESIS"); len(v) > 0 {
		flagGenesis = strings.Fields(v)
	}

	nodeCmd.Flags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")
	nodeCmd.Flags().StringVar(&flagLogLevel, "log-level", flagLogLevel, "log level, {crit, error, warn, info, debug}")
	nodeCmd.Flags().StringVar(&flagLogOutput, "log-output", flagLogOutput, "set log output file")
	nodeCmd.Flags().BoolVar(&flagVerbose, "verbose", flagVerbose, "verbose")
	nodeCmd.Flags().StringVar(&flagEndpointString, "endpoint", flagEndpointString, "endpoint uri to listen on")
	nodeCmd.Flags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	nodeCmd.Flags().StringVar(&flagTLSCertFile, "tls-cert", flagTLSCertFile, "tls certificate file")
	nodeCmd.Flags().StringVar(&flagTLSKeyFile, "tls-key", flagTLSKeyFile, "tls key file")
	nodeCmd.Flags().StringVar(&flagBlockTime, "block-time", flagBlockTime, "interval the height advances by one")
	nodeCmd.Flags().StringVar(&flagTreasury, "treasury", flagTreasury, "public address receiving slashed deposits and dues")
	nodeCmd.Flags().StringVar(&flagAdmin, "admin", flagAdmin, "public address allowed to force add and remove members")
	nodeCmd.Flags().StringVar(&flagRosterDeposit, "roster-deposit", flagRosterDeposit, "deposit reserved to create a roster")
	nodeCmd.Flags().StringVar(&flagNominationDeposit, "nomination-deposit", flagNominationDeposit, "deposit reserved to nominate")
	nodeCmd.Flags().StringVar(&flagMembershipDues, "membership-dues", flagMembershipDues, "dues paid by a new member")
	nodeCmd.Flags().StringVar(&flagProposalDeposit, "proposal-deposit", flagProposalDeposit, "deposit reserved to propose an expulsion")
	nodeCmd.Flags().StringVar(&flagNominationPeriod, "nomination-period", flagNominationPeriod, "nomination voting period in heights")
	nodeCmd.Flags().StringVar(&flagSecondPeriod, "second-period", flagSecondPeriod, "expulsion awaiting second period in heights")
	nodeCmd.Flags().StringVar(&flagExpulsionPeriod, "expulsion-period", flagExpulsionPeriod, "expulsion voting period in heights")
	nodeCmd.Flags().StringVar(&flagLockoutPeriod, "lockout-period", flagLockoutPeriod, "heights an expelled member can not be nominated")
	nodeCmd.Flags().StringVar(&flagSecondThreshold, "second-threshold", flagSecondThreshold, "seconds needed to open expulsion voting")
	nodeCmd.Flags().StringVar(&flagHTTPCacheAdapter, "http-cache-adapter", flagHTTPCacheAdapter, "http cache adapter: {mem, redis, none}")
	nodeCmd.Flags().StringVar(&flagHTTPCachePoolSize, "http-cache-pool-size", flagHTTPCachePoolSize, "http cache pool size for the mem adapter")
	nodeCmd.Flags().StringVar(&flagHTTPCacheRedisAddrs, "http-cache-redis-addrs", flagHTTPCacheRedisAddrs, "redis servers for the redis adapter: <name>=<addr>[,<name>=<addr>...]")
	nodeCmd.Flags().StringVar(&flagHTTPCacheExpire, "http-cache-expire", flagHTTPCacheExpire, "expiration of cached responses")
	nodeCmd.Flags().Var(&flagRateLimitAPI, "rate-limit-api", "rate limit for the api: <ip>=<limit>-<period>, or <limit>-<period>. ex) '10-S', '3.3.3.3=1000-M'")
	nodeCmd.Flags().Var(&flagGenesis, "genesis", "fund an account when the storage is empty: <address>,<balance>")
	nodeCmd.Flags().BoolVar(&flagDebugPProf, "debug-pprof", flagDebugPProf, "serve pprof under the debug path")
	nodeCmd.Flags().BoolVar(&flagDebugJSONRPC, "debug-jsonrpc", flagDebugJSONRPC, "serve the storage JSON-RPC under the debug path")

	rootCmd.AddCommand(nodeCmd)
}

func parseFlagRateLimit(l cmdcommon.ListFlags, defaultRate limiter.Rate) (rule common.RateLimitRule, err error) {
	rule = common.NewRateLimitRule(defaultRate)
	if len(l) < 1 {
		return
	}

	for _, s := range l {
		var ip, r string
		if i := strings.LastIndex(s, "="); i < 0 {
			r = s
		} else {
			ip, r = s[:i], s[i+1:]
			if net.ParseIP(ip) == nil {
				err = fmt.Errorf("invalid ip address: %q", ip)
				return
			}
		}

		var rate limiter.Rate
		if rate, err = limiter.NewRateFromFormatted(strings.ToUpper(r)); err != nil {
			return
		}

		if len(ip) > 0 {
			rule.ByIPAddress[ip] = rate
		} else {
			rule.Default = rate
		}
	}

	return
}

func parseFlagGenesis(l cmdcommon.ListFlags) (accounts []runner.GenesisAccount, err error) {
	for _, s := range l {
		csv := strings.Split(s, ",")
		if len(csv) != 2 {
			err = fmt.Errorf("expects <address>,<balance>: %q", s)
			return
		}

		address := strings.TrimSpace(csv[0])
		if !keypair.IsAddress(address) {
			err = fmt.Errorf("invalid address: %q", address)
			return
		}

		var balance common.Amount
		if balance, err = cmdcommon.ParseAmountFromString(strings.TrimSpace(csv[1])); err != nil {
			return
		}

		accounts = append(accounts, runner.GenesisAccount{Address: address, Balance: balance})
	}

	return
}

func parseFlagRedisAddrs(s string) (addrs map[string]string, err error) {
	addrs = map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if len(pair) < 1 {
			continue
		}
		nv := strings.SplitN(pair, "=", 2)
		if len(nv) != 2 || len(nv[0]) < 1 || len(nv[1]) < 1 {
			err = fmt.Errorf("expects <name>=<addr>: %q", pair)
			return
		}
		addrs[nv[0]] = nv[1]
	}

	return
}

func parseHeight(flagName, s string) common.Height {
	h, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, flagName, err)
	}

	return common.Height(h)
}

func parseAmount(flagName, s string) common.Amount {
	a, err := cmdcommon.ParseAmountFromString(s)
	if err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, flagName, err)
	}

	return a
}

func parseFlagsNode() {
	var err error

	if len(flagNetworkID) < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--network-id", errors.New("--network-id must be given"))
	}

	if nodeEndpoint, err = url.Parse(flagEndpointString); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--endpoint", err)
	}

	if strings.ToLower(nodeEndpoint.Scheme) == "https" {
		if _, err = os.Stat(flagTLSCertFile); os.IsNotExist(err) {
			cmdcommon.PrintFlagsError(nodeCmd, "--tls-cert", err)
		}
		if _, err = os.Stat(flagTLSKeyFile); os.IsNotExist(err) {
			cmdcommon.PrintFlagsError(nodeCmd, "--tls-key", err)
		}

		queries := nodeEndpoint.Query()
		queries.Add("TLSCertFile", flagTLSCertFile)
		queries.Add("TLSKeyFile", flagTLSKeyFile)
		nodeEndpoint.RawQuery = queries.Encode()
	}

	if storageConfig, err = storage.NewConfigFromString(flagStorageConfigString); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--storage", err)
	}

	conf = common.NewConfig([]byte(flagNetworkID))

	if conf.BlockTime, err = time.ParseDuration(flagBlockTime); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--block-time", err)
	}

	if len(flagTreasury) > 0 && !keypair.IsAddress(flagTreasury) {
		cmdcommon.PrintFlagsError(nodeCmd, "--treasury", errors.New("not a public address"))
	}
	conf.Treasury = flagTreasury

	if len(flagAdmin) > 0 && !keypair.IsAddress(flagAdmin) {
		cmdcommon.PrintFlagsError(nodeCmd, "--admin", errors.New("not a public address"))
	}
	conf.Admin = flagAdmin

	conf.RosterDeposit = parseAmount("--roster-deposit", flagRosterDeposit)
	conf.NominationDeposit = parseAmount("--nomination-deposit", flagNominationDeposit)
	conf.MembershipDues = parseAmount("--membership-dues", flagMembershipDues)
	conf.ProposalDeposit = parseAmount("--proposal-deposit", flagProposalDeposit)

	conf.NominationVotingPeriod = parseHeight("--nomination-period", flagNominationPeriod)
	conf.AwaitingSecondPeriod = parseHeight("--second-period", flagSecondPeriod)
	conf.ExpulsionVotingPeriod = parseHeight("--expulsion-period", flagExpulsionPeriod)
	conf.LockoutPeriod = parseHeight("--lockout-period", flagLockoutPeriod)

	if conf.SecondThreshold, err = strconv.Atoi(flagSecondThreshold); err != nil || conf.SecondThreshold < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--second-threshold", fmt.Errorf("must be a positive number: %q", flagSecondThreshold))
	}

	switch flagHTTPCacheAdapter {
	case common.HTTPCacheMemoryAdapterName, common.HTTPCacheRedisAdapterName, common.HTTPCacheNoneAdapterName:
		conf.HTTPCacheAdapter = flagHTTPCacheAdapter
	default:
		cmdcommon.PrintFlagsError(nodeCmd, "--http-cache-adapter", fmt.Errorf("unknown adapter: %q", flagHTTPCacheAdapter))
	}
	if conf.HTTPCachePoolSize, err = strconv.Atoi(flagHTTPCachePoolSize); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--http-cache-pool-size", err)
	}
	if conf.HTTPCacheRedisAddrs, err = parseFlagRedisAddrs(flagHTTPCacheRedisAddrs); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--http-cache-redis-addrs", err)
	}
	if conf.HTTPCacheAdapter == common.HTTPCacheRedisAdapterName && len(conf.HTTPCacheRedisAddrs) < 1 {
		cmdcommon.PrintFlagsError(nodeCmd, "--http-cache-redis-addrs", errors.New("redis adapter needs at least one address"))
	}
	if conf.HTTPCacheExpire, err = time.ParseDuration(flagHTTPCacheExpire); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--http-cache-expire", err)
	}

	if conf.RateLimitRuleAPI, err = parseFlagRateLimit(flagRateLimitAPI, common.RateLimitAPI); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--rate-limit-api", err)
	}

	if genesisAccounts, err = parseFlagGenesis(flagGenesis); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--genesis", err)
	}

	if logLevel, err = logging.LvlFromString(flagLogLevel); err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--log-level", err)
	}

	logHandler, err := common.NewLogHandler(flagLogOutput)
	if err != nil {
		cmdcommon.PrintFlagsError(nodeCmd, "--log-output", err)
	}
	if len(flagLogOutput) < 1 {
		flagLogOutput = common.LogOutputStdout
	}

	log.SetHandler(logging.LvlFilterHandler(logLevel, logHandler))
	runner.SetLogging(logLevel, logHandler)
	api.SetLogging(logLevel, logHandler)
	network.SetLogging(logLevel, logHandler)
	roster.SetLogging(logLevel, logHandler)
	ledger.SetLogging(logLevel, logHandler)

	log.Info("Starting Roster")

	parsedFlags := []interface{}{}
	parsedFlags = append(parsedFlags, "\n\tnetwork-id", flagNetworkID)
	parsedFlags = append(parsedFlags, "\n\tendpoint", flagEndpointString)
	parsedFlags = append(parsedFlags, "\n\tstorage", flagStorageConfigString)
	parsedFlags = append(parsedFlags, "\n\ttls-cert", flagTLSCertFile)
	parsedFlags = append(parsedFlags, "\n\ttls-key", flagTLSKeyFile)
	parsedFlags = append(parsedFlags, "\n\tlog-level", flagLogLevel)
	parsedFlags = append(parsedFlags, "\n\tlog-output", flagLogOutput)
	parsedFlags = append(parsedFlags, "\n\tblock-time", conf.BlockTime)
	parsedFlags = append(parsedFlags, "\n\ttreasury", conf.Treasury)
	parsedFlags = append(parsedFlags, "\n\tadmin", conf.Admin)
	parsedFlags = append(parsedFlags, "\n\thttp-cache-adapter", conf.HTTPCacheAdapter)
	parsedFlags = append(parsedFlags, "\n\thttp-cache-expire", conf.HTTPCacheExpire)
	parsedFlags = append(parsedFlags, "\n\trate-limit-api", conf.RateLimitRuleAPI.Default)
	parsedFlags = append(parsedFlags, "\n\tgenesis", len(genesisAccounts))
	parsedFlags = append(parsedFlags, "\n\tdebug-pprof", flagDebugPProf)
	parsedFlags = append(parsedFlags, "\n\tdebug-jsonrpc", flagDebugJSONRPC)

	log.Debug("parsed flags:", parsedFlags...)

	if flagVerbose {
		http2.VerboseLogs = true
	}

	runner.DebugPProf = flagDebugPProf
	runner.DebugJSONRPC = flagDebugJSONRPC
}

func runNode() error {
	metrics.InitPrometheusMetrics()

	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		log.Crit("failed to initialize storage", "error", err)
		return err
	}
	defer st.Close()

	if len(genesisAccounts) > 0 {
		created, err := runner.InitGenesis(st, genesisAccounts)
		if err != nil {
			log.Crit("failed to fund genesis accounts", "error", err)
			return err
		}
		log.Info("genesis", "created", created, "accounts", len(genesisAccounts))
	}

	clock, err := runner.NewHeightClock(st, conf.BlockTime)
	if err != nil {
		log.Crit("failed to load height", "error", err)
		return err
	}

	nodeName := nodeEndpoint.Host
	metrics.Node.SetInfo(nodeName)
	networkConfig, err := network.NewHTTP2NetworkConfigFromEndpoint(nodeName, nodeEndpoint)
	if err != nil {
		log.Crit("failed to create network config", "error", err)
		return err
	}
	nt := network.NewHTTP2Network(networkConfig)

	nr, err := runner.NewNodeRunner(nodeName, nt, st, clock, conf)
	if err != nil {
		log.Crit("failed to create node runner", "error", err)
		return err
	}

	var g run.Group
	{
		g.Add(func() error {
			if err := nr.Start(); err != nil {
				log.Crit("failed to start node", "error", err)
				return err
			}
			return nil
		}, func(error) {
			nr.Stop()
		})
	}
	{
		cancel := make(chan struct{})
		g.Add(func() error {
			return cmdcommon.Interrupt(cancel)
		}, func(error) {
			close(cancel)
		})
	}

	return g.Run()
}
